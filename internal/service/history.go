package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

// HistoryService records and reads exploration history. Inserts only — the
// history never shrinks, it is just read through a window of the most recent
// entries.
type HistoryService struct {
	repo   repository.HistoryRepository
	logger *slog.Logger
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(repo repository.HistoryRepository, logger *slog.Logger) *HistoryService {
	return &HistoryService{repo: repo, logger: logger}
}

// Record appends an exploration entry for userID.
func (s *HistoryService) Record(ctx context.Context, userID string, e *model.Exploration) (*model.Exploration, error) {
	e.UserID = userID
	e.City = strings.TrimSpace(e.City)
	if e.City == "" {
		return nil, apperror.ValidationFailed("city", "city is required")
	}

	if err := s.repo.CreateExploration(ctx, e); err != nil {
		s.logger.Error("failed to record exploration",
			slog.String("user", userID),
			slog.String("city", e.City),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("recording exploration: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A zero or oversized limit
// clamps to the read cap.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]model.Exploration, error) {
	if limit <= 0 || limit > model.HistoryReadLimit {
		limit = model.HistoryReadLimit
	}
	return s.repo.ListExplorationsByUser(ctx, userID, limit)
}
