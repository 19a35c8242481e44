// Package explorer drives the city-exploration flow: debounced place
// search, city selection with a three-way parallel data load, and the
// save-location sub-flow.
//
// Selections race: a user can click a second city while the first one's
// weather is still in flight. Every selection therefore carries a
// generation number, and a response whose generation no longer matches the
// current one is discarded. The session always reflects the latest
// selection, never a mix of two.
package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mveraz/citypulse/internal/client"
	"github.com/mveraz/citypulse/internal/model"
)

// Search tuning.
const (
	// MinQueryLength is the shortest query that triggers a request.
	MinQueryLength = 2
	// DefaultDebounce is how long typing must pause before the search
	// request fires.
	DefaultDebounce = 400 * time.Millisecond
)

// ErrSignInRequired is returned by SaveSelected without a session.
var ErrSignInRequired = errors.New("explorer: sign in required")

// ErrNoSelection is returned by SaveSelected before any city is selected.
var ErrNoSelection = errors.New("explorer: no city selected")

// API is the slice of the HTTP client the session needs. *client.Client
// satisfies it; tests substitute controllable fakes.
type API interface {
	SearchPlaces(ctx context.Context, query string) (*model.PlaceResults, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*model.Place, error)
	WeatherByCoords(ctx context.Context, lat, lon float64) (*model.CurrentConditions, error)
	SearchDevelopers(ctx context.Context, location string, page, perPage int) (*model.DeveloperSearch, error)
	SearchMovies(ctx context.Context, query string, page int) (*model.MovieSearch, error)
	RecordExploration(ctx context.Context, city, country string, lat, lon float64) (*model.Exploration, error)
	SaveLocation(ctx context.Context, input client.SaveLocationInput) (*model.SavedLocation, error)
}

// Panel is one of the three independent city-data sub-loads. Data is nil
// while loading and stays nil when the load fails — a failed panel shows
// "no data", it never takes the others down with it.
type Panel[T any] struct {
	Loading bool
	Data    *T
}

// Panels groups the three sub-loads of a selected city.
type Panels struct {
	Weather    Panel[model.CurrentConditions]
	Developers Panel[model.DeveloperSearch]
	Movies     Panel[model.MovieSearch]
}

// Snapshot is a copy of the session's observable state.
type Snapshot struct {
	Query    string
	Results  []model.Place
	Selected *model.Place
	Panels   Panels
}

// Session is the stateful explorer flow. Safe for concurrent use.
type Session struct {
	api    API
	logger *slog.Logger

	// OnChange, when set, is called after every state change, outside the
	// session lock. Set it before first use.
	OnChange func()

	// OnSaved, when set, is called after SaveSelected succeeds, outside the
	// session lock. The state container hooks its HandleLocationSaved here
	// so the location list and profile refresh after a save.
	OnSaved func()

	mu         sync.Mutex
	debounce   time.Duration
	timer      *time.Timer
	query      string
	results    []model.Place
	selected   *model.Place
	panels     Panels
	generation uint64
	signedIn   bool
}

// NewSession creates a Session over the given API.
func NewSession(api API, logger *slog.Logger) *Session {
	return &Session{
		api:      api,
		logger:   logger,
		debounce: DefaultDebounce,
	}
}

// SetSignedIn tells the session whether a user session is active. It gates
// exploration recording and the save-location flow.
func (s *Session) SetSignedIn(signedIn bool) {
	s.mu.Lock()
	s.signedIn = signedIn
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Query:  s.query,
		Panels: s.panels,
	}
	snap.Results = append(snap.Results, s.results...)
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	return snap
}

// Search schedules a place search for query. Queries shorter than two
// characters clear the results and never reach the network. Rapid calls
// collapse: only the last query scheduled within the debounce window fires.
func (s *Session) Search(query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.query = query
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if len([]rune(query)) < MinQueryLength {
		s.results = nil
		s.mu.Unlock()
		s.notify()
		return
	}

	s.timer = time.AfterFunc(s.debounce, func() {
		s.runSearch(query)
	})
	s.mu.Unlock()
	s.notify()
}

func (s *Session) runSearch(query string) {
	results, err := s.api.SearchPlaces(context.Background(), query)

	s.mu.Lock()
	// The user kept typing; this response answers an old query.
	if s.query != query {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.logger.Warn("place search failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		s.results = nil
	} else {
		s.results = results.Results
	}
	s.mu.Unlock()
	s.notify()
}

// SelectPlace makes place the current city and starts the three data loads.
// A signed-in selection also records an exploration entry, fire-and-forget.
func (s *Session) SelectPlace(place model.Place) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	sel := place
	s.selected = &sel
	s.panels = Panels{
		Weather:    Panel[model.CurrentConditions]{Loading: true},
		Developers: Panel[model.DeveloperSearch]{Loading: true},
		Movies:     Panel[model.MovieSearch]{Loading: true},
	}
	signedIn := s.signedIn
	s.mu.Unlock()
	s.notify()

	lat, lon := place.Coordinates.Lat, place.Coordinates.Lon

	go func() {
		data, err := s.api.WeatherByCoords(context.Background(), lat, lon)
		s.finishPanel(gen, "weather", err, func(p *Panels) {
			p.Weather = Panel[model.CurrentConditions]{Data: data}
		})
	}()
	go func() {
		data, err := s.api.SearchDevelopers(context.Background(), place.City, 0, 0)
		s.finishPanel(gen, "developers", err, func(p *Panels) {
			p.Developers = Panel[model.DeveloperSearch]{Data: data}
		})
	}()
	go func() {
		data, err := s.api.SearchMovies(context.Background(), place.City, 0)
		s.finishPanel(gen, "movies", err, func(p *Panels) {
			p.Movies = Panel[model.MovieSearch]{Data: data}
		})
	}()

	if signedIn {
		go s.recordExploration(place)
	}
}

// finishPanel applies one sub-load's outcome unless the selection moved on.
func (s *Session) finishPanel(gen uint64, name string, err error, apply func(*Panels)) {
	s.mu.Lock()
	if s.generation != gen {
		// Stale response from a superseded selection.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.logger.Warn("city data load failed",
			slog.String("panel", name),
			slog.String("error", err.Error()),
		)
		apply = func(p *Panels) {
			switch name {
			case "weather":
				p.Weather = Panel[model.CurrentConditions]{}
			case "developers":
				p.Developers = Panel[model.DeveloperSearch]{}
			case "movies":
				p.Movies = Panel[model.MovieSearch]{}
			}
		}
	}
	apply(&s.panels)
	s.mu.Unlock()
	s.notify()
}

// SelectCoords handles a map click: reverse geocode, then select the
// resolved place. An unresolvable click leaves the session untouched.
func (s *Session) SelectCoords(ctx context.Context, lat, lon float64) {
	place, err := s.api.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("reverse geocode failed",
			slog.Float64("lat", lat),
			slog.Float64("lon", lon),
			slog.String("error", err.Error()),
		)
		return
	}
	s.SelectPlace(*place)
}

// recordExploration writes the history entry for a selection. Failures are
// logged and dropped — exploring must never stall on bookkeeping.
func (s *Session) recordExploration(place model.Place) {
	_, err := s.api.RecordExploration(context.Background(),
		place.City, place.Country,
		place.Coordinates.Lat, place.Coordinates.Lon,
	)
	if err != nil {
		s.logger.Warn("exploration record dropped",
			slog.String("city", place.City),
			slog.String("error", err.Error()),
		)
	}
}

// SaveSelected bookmarks the currently selected city. The weather shown on
// screen at the moment of saving is denormalized into the row as a JSON
// snapshot. Requires a signed-in session and a selection.
func (s *Session) SaveSelected(ctx context.Context, name, notes, category string) (*model.SavedLocation, error) {
	s.mu.Lock()
	if !s.signedIn {
		s.mu.Unlock()
		return nil, ErrSignInRequired
	}
	if s.selected == nil {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	place := *s.selected
	weather := s.panels.Weather.Data
	s.mu.Unlock()

	var snapshot json.RawMessage
	if weather != nil {
		encoded, err := json.Marshal(weather)
		if err == nil {
			snapshot = encoded
		}
	}

	saved, err := s.api.SaveLocation(ctx, client.SaveLocationInput{
		Name:            name,
		City:            place.City,
		Country:         place.Country,
		CountryCode:     place.CountryCode,
		Latitude:        place.Coordinates.Lat,
		Longitude:       place.Coordinates.Lon,
		Notes:           notes,
		Category:        category,
		WeatherSnapshot: snapshot,
	})
	if err != nil {
		return nil, err
	}
	if s.OnSaved != nil {
		s.OnSaved()
	}
	return saved, nil
}

func (s *Session) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}
