package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mveraz/citypulse/internal/auth"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/service"
)

// LocationHandler serves saved-location bookmarks.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler creates a LocationHandler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// List handles GET /api/locations.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	locations, err := h.locations.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

type createLocationRequest struct {
	Name            string          `json:"name"`
	City            string          `json:"city"`
	Country         string          `json:"country"`
	CountryCode     string          `json:"countryCode"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	Notes           string          `json:"notes"`
	Category        string          `json:"category"`
	WeatherSnapshot json.RawMessage `json:"weatherSnapshot"`
}

// Create handles POST /api/locations.
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	loc, err := h.locations.Save(r.Context(), userID, &model.SavedLocation{
		Name:            req.Name,
		City:            req.City,
		Country:         req.Country,
		CountryCode:     req.CountryCode,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Notes:           req.Notes,
		Category:        req.Category,
		WeatherSnapshot: req.WeatherSnapshot,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

// Delete handles DELETE /api/locations/{id}.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.locations.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type favoriteRequest struct {
	IsFavorite bool `json:"isFavorite"`
}

// Favorite handles POST /api/locations/{id}/favorite and returns the
// updated bookmark.
func (h *LocationHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req favoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	loc, err := h.locations.SetFavorite(r.Context(), chi.URLParam(r, "id"), userID, req.IsFavorite)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}
