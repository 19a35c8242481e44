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

// MaxUsernameLength bounds both username and display name.
const MaxUsernameLength = 40

// ProfileService exposes the signed-in user's account and public profile.
type ProfileService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// GetUser returns the account behind a session. Backs the /api/me endpoint.
func (s *ProfileService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// GetProfile returns the user's public profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.users.GetProfile(ctx, userID)
}

// UpdateProfile applies a partial profile update. Empty fields keep their
// current value; AvatarURL is always written so it can be cleared.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, username, displayName, avatarURL string) (*model.Profile, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username = strings.TrimSpace(username); username != "" {
		if len(username) > MaxUsernameLength {
			return nil, apperror.ValidationFailed("username",
				fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
		}
		profile.Username = username
	}
	if displayName = strings.TrimSpace(displayName); displayName != "" {
		if len(displayName) > MaxUsernameLength {
			return nil, apperror.ValidationFailed("displayName",
				fmt.Sprintf("display name must be %d characters or less", MaxUsernameLength))
		}
		profile.DisplayName = displayName
	}
	profile.AvatarURL = strings.TrimSpace(avatarURL)

	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		s.logger.Error("failed to update profile",
			slog.String("id", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("id", userID))
	return profile, nil
}
