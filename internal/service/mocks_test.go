package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/model"
)

// Hand-written in-memory repositories. Each implements the same interface as
// the sqlite package, so the services under test cannot tell the difference.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ---------------------------------------------------------------------------
// users + profiles

type mockUserRepo struct {
	users    map[string]*model.User // by ID
	profiles map[string]*model.Profile
	nextID   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:    make(map[string]*model.User),
		profiles: make(map[string]*model.Profile),
	}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User, profile *model.Profile) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	for _, p := range m.profiles {
		if p.Username == profile.Username {
			return apperror.Conflict("profile", profile.Username)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	profile.ID = user.ID
	stored, storedProfile := *user, *profile
	m.users[user.ID] = &stored
	m.profiles[user.ID] = &storedProfile
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) ConfirmEmail(_ context.Context, userID string) error {
	u, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	if u.EmailConfirmedAt == nil {
		now := time.Now()
		u.EmailConfirmedAt = &now
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) GetProfile(_ context.Context, userID string) (*model.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, apperror.NotFound("profile", userID)
	}
	result := *p
	return &result, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, profile *model.Profile) error {
	if _, ok := m.profiles[profile.ID]; !ok {
		return apperror.NotFound("profile", profile.ID)
	}
	stored := *profile
	m.profiles[profile.ID] = &stored
	return nil
}

// ---------------------------------------------------------------------------
// auth tokens

type mockTokenRepo struct {
	tokens map[string]*model.AuthToken
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*model.AuthToken)}
}

func (m *mockTokenRepo) CreateToken(_ context.Context, token *model.AuthToken) error {
	stored := *token
	m.tokens[token.Token] = &stored
	return nil
}

func (m *mockTokenRepo) ConsumeToken(_ context.Context, token, purpose string) (string, error) {
	t, ok := m.tokens[token]
	if !ok || t.Purpose != purpose || time.Now().After(t.ExpiresAt) {
		return "", apperror.NotFound("token", token)
	}
	delete(m.tokens, token)
	return t.UserID, nil
}

// ---------------------------------------------------------------------------
// mailer that records deliveries

type mockMailer struct {
	confirmations []string // links, in send order
	resets        []string
}

func (m *mockMailer) SendConfirmation(_ context.Context, _, link string) error {
	m.confirmations = append(m.confirmations, link)
	return nil
}

func (m *mockMailer) SendPasswordReset(_ context.Context, _, link string) error {
	m.resets = append(m.resets, link)
	return nil
}

// ---------------------------------------------------------------------------
// saved locations

type mockLocationRepo struct {
	locations map[string]*model.SavedLocation
	nextID    int
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.SavedLocation)}
}

func (m *mockLocationRepo) CreateLocation(_ context.Context, loc *model.SavedLocation) error {
	m.nextID++
	loc.ID = fmt.Sprintf("loc-%d", m.nextID)
	loc.CreatedAt = time.Now()
	stored := *loc
	m.locations[loc.ID] = &stored
	return nil
}

func (m *mockLocationRepo) ListLocationsByUser(_ context.Context, userID string) ([]model.SavedLocation, error) {
	result := make([]model.SavedLocation, 0)
	for _, loc := range m.locations {
		if loc.UserID == userID {
			result = append(result, *loc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockLocationRepo) DeleteLocation(_ context.Context, id, userID string) error {
	loc, ok := m.locations[id]
	if !ok || loc.UserID != userID {
		return apperror.NotFound("location", id)
	}
	delete(m.locations, id)
	return nil
}

func (m *mockLocationRepo) SetFavorite(_ context.Context, id, userID string, favorite bool) (*model.SavedLocation, error) {
	loc, ok := m.locations[id]
	if !ok || loc.UserID != userID {
		return nil, apperror.NotFound("location", id)
	}
	loc.IsFavorite = favorite
	result := *loc
	return &result, nil
}

// ---------------------------------------------------------------------------
// exploration history

type mockHistoryRepo struct {
	entries []model.Exploration
	nextID  int
	failAll bool // simulate a write failure
}

func (m *mockHistoryRepo) CreateExploration(_ context.Context, e *model.Exploration) error {
	if m.failAll {
		return fmt.Errorf("history write failed")
	}
	m.nextID++
	e.ID = fmt.Sprintf("exp-%d", m.nextID)
	if e.ExploredAt.IsZero() {
		e.ExploredAt = time.Now()
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *mockHistoryRepo) ListExplorationsByUser(_ context.Context, userID string, limit int) ([]model.Exploration, error) {
	result := make([]model.Exploration, 0)
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if m.entries[i].UserID == userID {
			result = append(result, m.entries[i])
		}
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// city reviews

type mockReviewRepo struct {
	reviews map[string]*model.CityReview
	nextID  int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[string]*model.CityReview)}
}

func (m *mockReviewRepo) CreateReview(_ context.Context, r *model.CityReview) error {
	m.nextID++
	r.ID = fmt.Sprintf("rev-%d", m.nextID)
	r.CreatedAt = time.Now()
	stored := *r
	m.reviews[r.ID] = &stored
	return nil
}

func (m *mockReviewRepo) ListReviewsByUser(_ context.Context, userID string) ([]model.CityReview, error) {
	result := make([]model.CityReview, 0)
	for _, r := range m.reviews {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReviewRepo) ListReviewsByCity(_ context.Context, city string) ([]model.CityReviewWithAuthor, error) {
	result := make([]model.CityReviewWithAuthor, 0)
	for _, r := range m.reviews {
		if r.City == city {
			result = append(result, model.CityReviewWithAuthor{CityReview: *r, AuthorUsername: "author"})
		}
	}
	return result, nil
}

func (m *mockReviewRepo) DeleteReview(_ context.Context, id, userID string) error {
	r, ok := m.reviews[id]
	if !ok || r.UserID != userID {
		return apperror.NotFound("review", id)
	}
	delete(m.reviews, id)
	return nil
}
