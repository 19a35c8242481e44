package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mveraz/citypulse/internal/client"
	"github.com/mveraz/citypulse/internal/config"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/server"
)

// newTestStack boots the full application — router, services, in-memory
// database — inside an httptest server and returns a client pointed at it.
// Provider keys are left empty, so the proxy namespaces answer 503.
func newTestStack(t *testing.T) (*client.Client, *server.Server) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := &config.Config{
		DBPath:     ":memory:",
		JWTSecret:  "integration-test-secret-key",
		BaseURL:    "http://citypulse.test",
		CORSOrigin: "*",
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	return client.New(ts.URL), srv
}

// signUpConfirmed registers a user and confirms it straight through the
// store, skipping the email hop.
func signUpConfirmed(t *testing.T, c *client.Client, srv *server.Server, email, username string) {
	t.Helper()
	ctx := context.Background()

	user, err := c.SignUp(ctx, email, "secret1", username)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if err := srv.DB().ConfirmEmail(ctx, user.ID); err != nil {
		t.Fatalf("ConfirmEmail: %v", err)
	}
}

func TestHealth(t *testing.T) {
	c, _ := newTestStack(t)
	assert.NoError(t, c.Health(context.Background()))
}

func TestSignUpSignInFlow(t *testing.T) {
	c, srv := newTestStack(t)
	ctx := context.Background()

	// Unconfirmed sign-in carries the code the auth flow keys on.
	if _, err := c.SignUp(ctx, "a@b.com", "secret1", "alice"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	_, err := c.SignIn(ctx, "a@b.com", "secret1")
	assert.Equal(t, "email_not_confirmed", client.ErrorCode(err))

	// Confirm and retry.
	me, lookupErr := srv.DB().GetUserByEmail(ctx, "a@b.com")
	assert.NoError(t, lookupErr)
	assert.NoError(t, srv.DB().ConfirmEmail(ctx, me.ID))

	session, err := c.SignIn(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "a@b.com", session.User.Email)

	// The session sticks to the client.
	user, err := c.Me(ctx)
	assert.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	c, srv := newTestStack(t)
	signUpConfirmed(t, c, srv, "a@b.com", "alice")

	_, err := c.SignIn(context.Background(), "a@b.com", "not-the-password")
	assert.Equal(t, "invalid_credentials", client.ErrorCode(err))

	var apiErr *client.APIError
	if assert.True(t, errors.As(err, &apiErr)) {
		assert.Equal(t, 401, apiErr.Status)
	}
}

func TestSignOut_IdempotentWithoutSession(t *testing.T) {
	c, _ := newTestStack(t)

	// No session attached: a pure no-op.
	assert.NoError(t, c.SignOut(context.Background()))
	assert.Empty(t, c.Token())
}

func TestMe_RequiresSession(t *testing.T) {
	c, _ := newTestStack(t)

	_, err := c.Me(context.Background())
	var apiErr *client.APIError
	if assert.True(t, errors.As(err, &apiErr)) {
		assert.Equal(t, 401, apiErr.Status)
	}
}

func TestLocationLifecycle(t *testing.T) {
	c, srv := newTestStack(t)
	ctx := context.Background()

	signUpConfirmed(t, c, srv, "a@b.com", "alice")
	if _, err := c.SignIn(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	snapshot := json.RawMessage(`{"temperature":21.4,"description":"clear sky"}`)
	saved, err := c.SaveLocation(ctx, client.SaveLocationInput{
		Name:            "CDMX trip",
		City:            "Ciudad de México",
		Country:         "Mexico",
		CountryCode:     "MX",
		Latitude:        19.4326,
		Longitude:       -99.1332,
		Category:        "travel",
		WeatherSnapshot: snapshot,
	})
	if err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	assert.NotEmpty(t, saved.ID)

	// The snapshot survives the server round trip byte-for-byte.
	locations, err := c.Locations(ctx)
	assert.NoError(t, err)
	if assert.Len(t, locations, 1) {
		assert.JSONEq(t, string(snapshot), string(locations[0].WeatherSnapshot))
	}

	fav, err := c.SetFavorite(ctx, saved.ID, true)
	assert.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	assert.NoError(t, c.DeleteLocation(ctx, saved.ID))
	locations, _ = c.Locations(ctx)
	assert.Len(t, locations, 0)
}

func TestHistoryAndReviews(t *testing.T) {
	c, srv := newTestStack(t)
	ctx := context.Background()

	signUpConfirmed(t, c, srv, "a@b.com", "alice")
	if _, err := c.SignIn(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	_, err := c.RecordExploration(ctx, "Oaxaca", "Mexico", 17.06, -96.72)
	assert.NoError(t, err)
	history, err := c.History(ctx)
	assert.NoError(t, err)
	if assert.Len(t, history, 1) {
		assert.Equal(t, "Oaxaca", history[0].City)
	}

	review, err := c.CreateReview(ctx, client.CreateReviewInput{
		City:   "Oaxaca",
		Title:  "Mercados y mole",
		Rating: 5,
		Tags:   []string{"food", "culture"},
	})
	assert.NoError(t, err)

	// The city listing carries the author's public profile.
	cityReviews, err := c.CityReviews(ctx, "Oaxaca")
	assert.NoError(t, err)
	if assert.Len(t, cityReviews, 1) {
		assert.Equal(t, "alice", cityReviews[0].AuthorUsername)
		assert.Equal(t, []string{"food", "culture"}, cityReviews[0].Tags)
	}

	assert.NoError(t, c.DeleteReview(ctx, review.ID))
}

func TestWeatherNamespaceUnavailableWithoutKey(t *testing.T) {
	c, _ := newTestStack(t)

	_, err := c.WeatherByCity(context.Background(), "Berlin")
	var apiErr *client.APIError
	if assert.True(t, errors.As(err, &apiErr)) {
		assert.Equal(t, 503, apiErr.Status)
		assert.Equal(t, "unavailable", apiErr.Type)
	}
}

func TestPasswordRecoveryOverHTTP(t *testing.T) {
	c, srv := newTestStack(t)
	ctx := context.Background()

	signUpConfirmed(t, c, srv, "a@b.com", "alice")
	assert.NoError(t, c.ResetPassword(ctx, "a@b.com"))

	// The LogMailer doesn't expose the emailed link, so plant a recovery
	// token directly in the store and follow it from there.
	user, err := srv.DB().GetUserByEmail(ctx, "a@b.com")
	assert.NoError(t, err)
	token := &model.AuthToken{
		Token:     "planted-recovery-token",
		UserID:    user.ID,
		Purpose:   model.TokenPurposeRecover,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	assert.NoError(t, srv.DB().CreateToken(ctx, token))

	assert.NoError(t, c.ExchangeRecovery(ctx, token.Token))
	assert.NoError(t, c.UpdatePassword(ctx, "brand-new-pass"))

	// Old password fails, new one works.
	c.ClearToken()
	_, err = c.SignIn(ctx, "a@b.com", "secret1")
	assert.Equal(t, "invalid_credentials", client.ErrorCode(err))
	_, err = c.SignIn(ctx, "a@b.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestExchangeRecovery_UnknownToken(t *testing.T) {
	c, _ := newTestStack(t)

	err := c.ExchangeRecovery(context.Background(), "not-a-real-token")
	var apiErr *client.APIError
	if assert.True(t, errors.As(err, &apiErr)) {
		assert.Equal(t, 404, apiErr.Status)
	}
}
