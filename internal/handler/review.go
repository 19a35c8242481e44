package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mveraz/citypulse/internal/auth"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/service"
)

// ReviewHandler serves city reviews.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ListMine handles GET /api/reviews — the signed-in user's own reviews.
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	reviews, err := h.reviews.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// ListByCity handles GET /api/reviews/city/{city}. Public — reviews carry
// the author's public profile, so no session is needed to browse a city.
func (h *ReviewHandler) ListByCity(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByCity(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type createReviewRequest struct {
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Title      string   `json:"title"`
	Rating     int      `json:"rating"`
	ReviewText string   `json:"reviewText"`
	Tags       []string `json:"tags"`
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), userID, &model.CityReview{
		City:       req.City,
		Country:    req.Country,
		Title:      req.Title,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		Tags:       req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// Delete handles DELETE /api/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.reviews.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
