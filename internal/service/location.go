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

// MaxLocationNameLength bounds the user-chosen bookmark name.
const MaxLocationNameLength = 100

// LocationService handles saved-location bookmarks.
type LocationService struct {
	repo   repository.LocationRepository
	logger *slog.Logger
}

// NewLocationService creates a LocationService.
func NewLocationService(repo repository.LocationRepository, logger *slog.Logger) *LocationService {
	return &LocationService{repo: repo, logger: logger}
}

// Save validates and stores a location bookmark for userID. The category is
// normalized onto the known set; the weather snapshot, if any, is stored as
// the caller sent it.
func (s *LocationService) Save(ctx context.Context, userID string, loc *model.SavedLocation) (*model.SavedLocation, error) {
	loc.UserID = userID
	loc.Name = strings.TrimSpace(loc.Name)
	loc.City = strings.TrimSpace(loc.City)

	if loc.Name == "" {
		return nil, apperror.ValidationFailed("name", "location name is required")
	}
	if len(loc.Name) > MaxLocationNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("location name must be %d characters or less", MaxLocationNameLength))
	}
	if loc.City == "" {
		return nil, apperror.ValidationFailed("city", "city is required")
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return nil, apperror.ValidationFailed("latitude", "latitude must be between -90 and 90")
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return nil, apperror.ValidationFailed("longitude", "longitude must be between -180 and 180")
	}
	loc.Category = model.NormalizeCategory(loc.Category)

	if err := s.repo.CreateLocation(ctx, loc); err != nil {
		s.logger.Error("failed to save location",
			slog.String("user", userID),
			slog.String("city", loc.City),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving location: %w", err)
	}

	s.logger.Info("location saved",
		slog.String("id", loc.ID),
		slog.String("user", userID),
		slog.String("city", loc.City),
	)
	return loc, nil
}

// List returns the user's saved locations, newest first.
func (s *LocationService) List(ctx context.Context, userID string) ([]model.SavedLocation, error) {
	return s.repo.ListLocationsByUser(ctx, userID)
}

// Delete removes a bookmark the user owns.
func (s *LocationService) Delete(ctx context.Context, id, userID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "location ID is required")
	}
	if err := s.repo.DeleteLocation(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("location deleted", slog.String("id", id), slog.String("user", userID))
	return nil
}

// SetFavorite flips the favorite flag and returns the updated bookmark.
func (s *LocationService) SetFavorite(ctx context.Context, id, userID string, favorite bool) (*model.SavedLocation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "location ID is required")
	}
	return s.repo.SetFavorite(ctx, id, userID, favorite)
}
