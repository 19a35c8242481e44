// Package appstate is the application's top-level state container: the
// session's user and profile, the per-user collections, the selected city,
// and the map viewport. It reacts to auth events the way the UI shell does
// — reload on sign-in, clear on sign-out — and exposes imperative refresh
// calls for each collection.
package appstate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mveraz/citypulse/internal/model"
)

// Default map viewport: centered on Mexico City, zoomed out to country
// scale.
const (
	DefaultLng  = -99.1332
	DefaultLat  = 19.4326
	DefaultZoom = 3
)

// CityZoom is the viewport zoom applied when a city is selected.
const CityZoom = 10

// Side-panel tabs.
const (
	TabWeather    = "weather"
	TabDevelopers = "developers"
	TabMovies     = "movies"
	TabReviews    = "reviews"
)

// AuthEvent is a session lifecycle notification.
type AuthEvent string

const (
	EventSignedIn         AuthEvent = "SIGNED_IN"
	EventSignedOut        AuthEvent = "SIGNED_OUT"
	EventUserUpdated      AuthEvent = "USER_UPDATED"
	EventPasswordRecovery AuthEvent = "PASSWORD_RECOVERY"
)

// Viewport is the map camera.
type Viewport struct {
	Lng  float64
	Lat  float64
	Zoom float64
}

// SidePanel is the city-detail drawer.
type SidePanel struct {
	Open bool
	Tab  string
}

// Backend is the slice of the HTTP client the store needs.
type Backend interface {
	Token() string
	Me(ctx context.Context) (*model.User, error)
	GetProfile(ctx context.Context) (*model.Profile, error)
	Locations(ctx context.Context) ([]model.SavedLocation, error)
	History(ctx context.Context) ([]model.Exploration, error)
	SignOut(ctx context.Context) error
	SetFavorite(ctx context.Context, id string, favorite bool) (*model.SavedLocation, error)
	DeleteLocation(ctx context.Context, id string) error
}

// Snapshot is a copy of the store's observable state.
type Snapshot struct {
	Loading      bool
	User         *model.User
	Profile      *model.Profile
	Locations    []model.SavedLocation
	History      []model.Exploration
	SelectedCity *model.Place
	Viewport     Viewport
	Panel        SidePanel
}

// Store holds the application state. Safe for concurrent use.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu        sync.Mutex
	loading   bool
	user      *model.User
	profile   *model.Profile
	locations []model.SavedLocation
	history   []model.Exploration
	selected  *model.Place
	viewport  Viewport
	panel     SidePanel
}

// New creates a Store with the default viewport.
func New(backend Backend, logger *slog.Logger) *Store {
	return &Store{
		backend:  backend,
		logger:   logger,
		viewport: Viewport{Lng: DefaultLng, Lat: DefaultLat, Zoom: DefaultZoom},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Loading:  s.loading,
		User:     s.user,
		Profile:  s.profile,
		Viewport: s.viewport,
		Panel:    s.panel,
	}
	snap.Locations = append(snap.Locations, s.locations...)
	snap.History = append(snap.History, s.history...)
	if s.selected != nil {
		sel := *s.selected
		snap.SelectedCity = &sel
	}
	return snap
}

// Init resolves the session at startup. With no token attached there is
// nothing to load; with one, the user, profile, locations, and history load
// in parallel. Whatever happens, the store ends non-loading — a failed
// startup shows an empty signed-out app, never a spinner forever.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if s.backend.Token() == "" {
		return
	}
	s.loadAll(ctx)
}

// loadAll fetches the session-scoped data in parallel. Individual failures
// are logged and leave that slice empty.
func (s *Store) loadAll(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		user, err := s.backend.Me(ctx)
		if err != nil {
			s.logger.Warn("loading user failed", slog.String("error", err.Error()))
			return
		}
		s.mu.Lock()
		s.user = user
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		profile, err := s.backend.GetProfile(ctx)
		if err != nil {
			s.logger.Warn("loading profile failed", slog.String("error", err.Error()))
			return
		}
		s.mu.Lock()
		s.profile = profile
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		s.RefreshLocations(ctx)
	}()
	go func() {
		defer wg.Done()
		s.RefreshHistory(ctx)
	}()

	wg.Wait()
}

// HandleAuthEvent applies a session lifecycle event.
//
//	SIGNED_IN         reload everything for the new session
//	SIGNED_OUT        clear all session state
//	USER_UPDATED      reload everything, same as a fresh sign-in
//	PASSWORD_RECOVERY deliberately nothing — the recovery flow owns the UI
func (s *Store) HandleAuthEvent(ctx context.Context, event AuthEvent) {
	switch event {
	case EventSignedIn, EventUserUpdated:
		s.loadAll(ctx)
	case EventSignedOut:
		s.clearSession()
	case EventPasswordRecovery:
		// no state change
	}
}

// SignOut ends the session. Idempotent: with no user loaded it is a no-op
// and no request is made.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	signedIn := s.user != nil || s.backend.Token() != ""
	s.mu.Unlock()
	if !signedIn {
		return
	}

	if err := s.backend.SignOut(ctx); err != nil {
		s.logger.Warn("sign-out request failed", slog.String("error", err.Error()))
	}
	s.clearSession()
}

func (s *Store) clearSession() {
	s.mu.Lock()
	s.user = nil
	s.profile = nil
	s.locations = nil
	s.history = nil
	s.mu.Unlock()
}

// SelectCity recenters the map on the city and opens the side panel on the
// weather tab.
func (s *Store) SelectCity(place model.Place) {
	s.mu.Lock()
	sel := place
	s.selected = &sel
	s.viewport = Viewport{
		Lng:  place.Coordinates.Lon,
		Lat:  place.Coordinates.Lat,
		Zoom: CityZoom,
	}
	s.panel = SidePanel{Open: true, Tab: TabWeather}
	s.mu.Unlock()
}

// ClosePanel hides the side panel; the selection stays.
func (s *Store) ClosePanel() {
	s.mu.Lock()
	s.panel.Open = false
	s.mu.Unlock()
}

// SetPanelTab switches the side panel to the named tab.
func (s *Store) SetPanelTab(tab string) {
	s.mu.Lock()
	s.panel.Tab = tab
	s.mu.Unlock()
}

// RefreshLocations reloads the saved-location list.
func (s *Store) RefreshLocations(ctx context.Context) {
	locations, err := s.backend.Locations(ctx)
	if err != nil {
		s.logger.Warn("loading locations failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	s.locations = locations
	s.mu.Unlock()
}

// RefreshHistory reloads the exploration history.
func (s *Store) RefreshHistory(ctx context.Context) {
	history, err := s.backend.History(ctx)
	if err != nil {
		s.logger.Warn("loading history failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	s.history = history
	s.mu.Unlock()
}

// RefreshProfile reloads the user and profile.
func (s *Store) RefreshProfile(ctx context.Context) {
	user, err := s.backend.Me(ctx)
	if err == nil {
		s.mu.Lock()
		s.user = user
		s.mu.Unlock()
	}
	profile, err := s.backend.GetProfile(ctx)
	if err == nil {
		s.mu.Lock()
		s.profile = profile
		s.mu.Unlock()
	}
}

// HandleLocationSaved refreshes what a successful save dirties: the
// location list and the profile. Connect it to the explorer session's
// OnSaved hook.
func (s *Store) HandleLocationSaved(ctx context.Context) {
	s.RefreshLocations(ctx)
	s.RefreshProfile(ctx)
}

// ToggleFavorite flips a bookmark's favorite flag and refreshes the list so
// the store reflects the server's view.
func (s *Store) ToggleFavorite(ctx context.Context, id string, favorite bool) error {
	if _, err := s.backend.SetFavorite(ctx, id, favorite); err != nil {
		return err
	}
	s.RefreshLocations(ctx)
	return nil
}

// DeleteLocation removes a bookmark and refreshes the list.
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	if err := s.backend.DeleteLocation(ctx, id); err != nil {
		return err
	}
	s.RefreshLocations(ctx)
	return nil
}
