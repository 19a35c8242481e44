// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation, but
// nothing above this package knows that.
package repository

import (
	"context"

	"github.com/mveraz/citypulse/internal/model"
)

// UserRepository manages accounts and their one-to-one profiles.
type UserRepository interface {
	// CreateUser inserts the user and its initial profile atomically.
	// Fails with a conflict error when the email or username is taken.
	CreateUser(ctx context.Context, user *model.User, profile *model.Profile) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ConfirmEmail(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile *model.Profile) error
}

// TokenRepository manages single-use auth tokens (confirm / recover).
type TokenRepository interface {
	CreateToken(ctx context.Context, token *model.AuthToken) error
	// ConsumeToken validates, deletes, and returns the owning userID.
	// Unknown, mismatched-purpose, and expired tokens all come back as
	// not-found — callers cannot distinguish, on purpose.
	ConsumeToken(ctx context.Context, token, purpose string) (string, error)
}

// LocationRepository manages saved locations. The mutating calls scope by
// userID in the query itself, so one user can never touch another's rows.
type LocationRepository interface {
	CreateLocation(ctx context.Context, loc *model.SavedLocation) error
	ListLocationsByUser(ctx context.Context, userID string) ([]model.SavedLocation, error)
	DeleteLocation(ctx context.Context, id, userID string) error
	SetFavorite(ctx context.Context, id, userID string, favorite bool) (*model.SavedLocation, error)
}

// HistoryRepository manages exploration history. Insert-only: entries are
// immutable once created.
type HistoryRepository interface {
	CreateExploration(ctx context.Context, e *model.Exploration) error
	// ListExplorationsByUser returns entries newest first, at most limit.
	ListExplorationsByUser(ctx context.Context, userID string, limit int) ([]model.Exploration, error)
}

// ReviewRepository manages city reviews.
type ReviewRepository interface {
	CreateReview(ctx context.Context, r *model.CityReview) error
	ListReviewsByUser(ctx context.Context, userID string) ([]model.CityReview, error)
	ListReviewsByCity(ctx context.Context, city string) ([]model.CityReviewWithAuthor, error)
	DeleteReview(ctx context.Context, id, userID string) error
}

// APILogRepository appends to the API usage log.
type APILogRepository interface {
	InsertAPILog(ctx context.Context, entry *model.APILog) error
}
