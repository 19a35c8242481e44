package handler

import (
	"net/http"
	"strconv"

	"github.com/mveraz/citypulse/internal/auth"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/service"
)

// HistoryHandler serves exploration history.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /api/history?limit. The read is capped server-side no
// matter what limit the client asks for.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.history.List(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type createExplorationRequest struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Create handles POST /api/history.
func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createExplorationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.history.Record(r.Context(), userID, &model.Exploration{
		City:      req.City,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
