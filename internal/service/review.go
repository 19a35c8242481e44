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

// Review validation constants.
const (
	MinRating            = 1
	MaxRating            = 5
	MaxReviewTitleLength = 120
	MaxReviewTextLength  = 5000
)

// ReviewService handles city reviews.
type ReviewService struct {
	repo   repository.ReviewRepository
	logger *slog.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(repo repository.ReviewRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{repo: repo, logger: logger}
}

// Create validates and stores a review for userID. Tags keep the order the
// caller sent; a nil slice normalizes to empty so responses never carry
// JSON null.
func (s *ReviewService) Create(ctx context.Context, userID string, r *model.CityReview) (*model.CityReview, error) {
	r.UserID = userID
	r.City = strings.TrimSpace(r.City)
	r.Title = strings.TrimSpace(r.Title)

	if r.City == "" {
		return nil, apperror.ValidationFailed("city", "city is required")
	}
	if r.Title == "" {
		return nil, apperror.ValidationFailed("title", "review title is required")
	}
	if len(r.Title) > MaxReviewTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("review title must be %d characters or less", MaxReviewTitleLength))
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if len(r.ReviewText) > MaxReviewTextLength {
		return nil, apperror.ValidationFailed("reviewText",
			fmt.Sprintf("review text must be %d characters or less", MaxReviewTextLength))
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}

	if err := s.repo.CreateReview(ctx, r); err != nil {
		s.logger.Error("failed to create review",
			slog.String("user", userID),
			slog.String("city", r.City),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating review: %w", err)
	}

	s.logger.Info("review created",
		slog.String("id", r.ID),
		slog.String("user", userID),
		slog.String("city", r.City),
	)
	return r, nil
}

// ListByUser returns the user's own reviews, newest first.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]model.CityReview, error) {
	return s.repo.ListReviewsByUser(ctx, userID)
}

// ListByCity returns all reviews for a city with author profiles attached.
// Public: no session required.
func (s *ReviewService) ListByCity(ctx context.Context, city string) ([]model.CityReviewWithAuthor, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperror.ValidationFailed("city", "city is required")
	}
	return s.repo.ListReviewsByCity(ctx, city)
}

// Delete removes a review the user owns.
func (s *ReviewService) Delete(ctx context.Context, id, userID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "review ID is required")
	}
	if err := s.repo.DeleteReview(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("review deleted", slog.String("id", id), slog.String("user", userID))
	return nil
}
