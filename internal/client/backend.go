package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mveraz/citypulse/internal/model"
)

// Session is what a successful sign-in yields.
type Session struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	User        *model.User `json:"user"`
}

// SignUp registers an account. No session is returned — the account must
// confirm its email first.
func (c *Client) SignUp(ctx context.Context, email, password, username string) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password, "username": username}
	if err := c.do(ctx, "POST", "/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SignIn exchanges credentials for a session and attaches it to the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "POST", "/auth/signin", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// SignOut discards the session. Idempotent: calling it without a session is
// a no-op, and the server call is best-effort — the local token is dropped
// either way.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, "POST", "/auth/signout", nil, nil)
	c.ClearToken()
	return err
}

// ConfirmEmail consumes an emailed confirmation token.
func (c *Client) ConfirmEmail(ctx context.Context, token string) error {
	return c.get(ctx, "/auth/confirm?token="+url.QueryEscape(token), nil)
}

// ExchangeRecovery turns an emailed reset token into a recovery session and
// attaches it, so UpdatePassword can follow.
func (c *Client) ExchangeRecovery(ctx context.Context, token string) error {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	path := "/auth/confirm?token=" + url.QueryEscape(token) + "&mode=reset"
	if err := c.get(ctx, path, &out); err != nil {
		return err
	}
	c.SetToken(out.AccessToken)
	return nil
}

// ResetPassword requests a password-reset email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.do(ctx, "POST", "/auth/reset-password", map[string]string{"email": email}, nil)
}

// ResendConfirmation requests a fresh confirmation email.
func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	return c.do(ctx, "POST", "/auth/resend-confirmation", map[string]string{"email": email}, nil)
}

// UpdatePassword sets a new password through the attached recovery session.
func (c *Client) UpdatePassword(ctx context.Context, password string) error {
	return c.do(ctx, "POST", "/auth/update-password", map[string]string{"password": password}, nil)
}

// Me returns the account behind the attached session.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.get(ctx, "/api/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the signed-in user's public profile.
func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.get(ctx, "/api/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update; empty fields are kept.
func (c *Client) UpdateProfile(ctx context.Context, username, displayName, avatarURL string) (*model.Profile, error) {
	var out model.Profile
	body := map[string]string{
		"username":    username,
		"displayName": displayName,
		"avatarUrl":   avatarURL,
	}
	if err := c.do(ctx, "PATCH", "/api/profile", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Locations lists the user's saved locations, newest first.
func (c *Client) Locations(ctx context.Context) ([]model.SavedLocation, error) {
	var out []model.SavedLocation
	if err := c.get(ctx, "/api/locations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveLocationInput is the payload for SaveLocation.
type SaveLocationInput struct {
	Name            string          `json:"name"`
	City            string          `json:"city"`
	Country         string          `json:"country"`
	CountryCode     string          `json:"countryCode"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	Notes           string          `json:"notes"`
	Category        string          `json:"category"`
	WeatherSnapshot json.RawMessage `json:"weatherSnapshot,omitempty"`
}

// SaveLocation bookmarks a city.
func (c *Client) SaveLocation(ctx context.Context, input SaveLocationInput) (*model.SavedLocation, error) {
	var out model.SavedLocation
	if err := c.do(ctx, "POST", "/api/locations", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLocation removes a bookmark.
func (c *Client) DeleteLocation(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/locations/"+url.PathEscape(id), nil, nil)
}

// SetFavorite flips a bookmark's favorite flag.
func (c *Client) SetFavorite(ctx context.Context, id string, favorite bool) (*model.SavedLocation, error) {
	var out model.SavedLocation
	body := map[string]bool{"isFavorite": favorite}
	if err := c.do(ctx, "POST", "/api/locations/"+url.PathEscape(id)+"/favorite", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists the user's exploration history, newest first, capped
// server-side.
func (c *Client) History(ctx context.Context) ([]model.Exploration, error) {
	var out []model.Exploration
	if err := c.get(ctx, "/api/history", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordExploration appends a history entry.
func (c *Client) RecordExploration(ctx context.Context, city, country string, lat, lon float64) (*model.Exploration, error) {
	var out model.Exploration
	body := map[string]any{
		"city": city, "country": country,
		"latitude": lat, "longitude": lon,
	}
	if err := c.do(ctx, "POST", "/api/history", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyReviews lists the user's own reviews.
func (c *Client) MyReviews(ctx context.Context) ([]model.CityReview, error) {
	var out []model.CityReview
	if err := c.get(ctx, "/api/reviews", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CityReviews lists all reviews for a city with author profiles. Public.
func (c *Client) CityReviews(ctx context.Context, city string) ([]model.CityReviewWithAuthor, error) {
	var out []model.CityReviewWithAuthor
	if err := c.get(ctx, "/api/reviews/city/"+url.PathEscape(city), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReviewInput is the payload for CreateReview.
type CreateReviewInput struct {
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Title      string   `json:"title"`
	Rating     int      `json:"rating"`
	ReviewText string   `json:"reviewText"`
	Tags       []string `json:"tags"`
}

// CreateReview posts a city review.
func (c *Client) CreateReview(ctx context.Context, input CreateReviewInput) (*model.CityReview, error) {
	var out model.CityReview
	if err := c.do(ctx, "POST", "/api/reviews", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReview removes one of the user's reviews.
func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/reviews/"+url.PathEscape(id), nil, nil)
}
