package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mveraz/citypulse/internal/apperror"
)

func TestWeatherClient_CurrentByCoords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Ciudad de México",
			"weather": [{"description": "clear sky", "icon": "01d"}],
			"main": {"temp": 22.5, "feels_like": 21.8, "temp_min": 18, "temp_max": 25, "humidity": 40, "pressure": 1015},
			"wind": {"speed": 3.1, "deg": 90},
			"visibility": 10000,
			"sys": {"country": "MX", "sunrise": 1700000000, "sunset": 1700040000}
		}`))
	}))
	defer srv.Close()

	c := NewWeatherClient("test-key")
	c.baseURL = srv.URL

	cond, err := c.CurrentByCoords(context.Background(), 19.4326, -99.1332)
	if err != nil {
		t.Fatalf("CurrentByCoords() error = %v", err)
	}
	if cond.City != "Ciudad de México" {
		t.Errorf("City = %q", cond.City)
	}
	if cond.Temperature != 22.5 {
		t.Errorf("Temperature = %v, want 22.5", cond.Temperature)
	}
	if cond.Icon != "01d" || cond.IconURL == "" {
		t.Errorf("Icon = %q, IconURL = %q", cond.Icon, cond.IconURL)
	}
	if cond.Sunrise.IsZero() || cond.Sunset.IsZero() {
		t.Error("sunrise/sunset not populated")
	}
}

func TestWeatherClient_MissingKey(t *testing.T) {
	c := NewWeatherClient("")
	_, err := c.CurrentByCity(context.Background(), "Berlin")
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestWeatherClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWeatherClient("k")
	c.baseURL = srv.URL

	_, err := c.CurrentByCity(context.Background(), "Berlin")
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestWeatherClient_RateLimitPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewWeatherClient("k")
	c.baseURL = srv.URL

	_, err := c.CurrentByCity(context.Background(), "Berlin")
	if !errors.Is(err, apperror.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestGitHubClient_SearchUsersByLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/users":
			w.Write([]byte(`{"total_count": 2, "items": [{"login": "alice"}, {"login": "bob"}]}`))
		case "/users/alice":
			w.Write([]byte(`{"id": 1, "login": "alice", "name": "Alice", "followers": 10, "public_repos": 5, "html_url": "https://github.com/alice"}`))
		case "/users/bob":
			// One hit failing to hydrate must not sink the page.
			http.Error(w, "nope", http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewGitHubClient("")
	c.baseURL = srv.URL

	res, err := c.SearchUsersByLocation(context.Background(), "Ciudad de México", 1, 12)
	if err != nil {
		t.Fatalf("SearchUsersByLocation() error = %v", err)
	}
	if res.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", res.TotalCount)
	}
	if len(res.Users) != 1 || res.Users[0].Login != "alice" {
		t.Fatalf("Users = %+v, want just alice", res.Users)
	}
	if res.Users[0].Followers != 10 {
		t.Errorf("Followers = %d, want 10 (hydration)", res.Users[0].Followers)
	}
}

func TestMovieClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_results": 1, "results": [
			{"id": 603, "title": "The Matrix", "original_title": "The Matrix",
			 "overview": "...", "poster_path": "/p.jpg", "vote_average": 8.2, "release_date": "1999-03-31"}
		]}`))
	}))
	defer srv.Close()

	c := NewMovieClient("k")
	c.baseURL = srv.URL

	res, err := c.Search(context.Background(), "matrix", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.TotalResults != 1 || len(res.Movies) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Movies[0].PosterURL != tmdbPosterURL+"/p.jpg" {
		t.Errorf("PosterURL = %q", res.Movies[0].PosterURL)
	}
}

func TestGeocodeClient_Reverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features": [{
			"text": "Ciudad de México",
			"place_name": "Ciudad de México, Mexico",
			"center": [-99.1332, 19.4326],
			"context": [{"id": "country.123", "text": "Mexico", "short_code": "mx"}]
		}]}`))
	}))
	defer srv.Close()

	c := NewGeocodeClient("tok")
	c.baseURL = srv.URL

	place, err := c.Reverse(context.Background(), 19.4326, -99.1332)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if place.City != "Ciudad de México" {
		t.Errorf("City = %q", place.City)
	}
	if place.CountryCode != "MX" {
		t.Errorf("CountryCode = %q, want MX", place.CountryCode)
	}
	if place.Coordinates.Lat != 19.4326 || place.Coordinates.Lon != -99.1332 {
		t.Errorf("Coordinates = %+v", place.Coordinates)
	}
}

func TestGeocodeClient_ReverseNoFeature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	c := NewGeocodeClient("tok")
	c.baseURL = srv.URL

	_, err := c.Reverse(context.Background(), 0, 0)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
