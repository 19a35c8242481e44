package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/provider"
)

// ProxyHandler fronts the four upstream providers. The clients hold the API
// keys; browsers only ever see these routes. Provider failures pass through
// writeError — 502 for upstream errors, 429 for rate limits, 503 when the
// namespace has no key configured.
type ProxyHandler struct {
	weather *provider.WeatherClient
	github  *provider.GitHubClient
	movies  *provider.MovieClient
	geocode *provider.GeocodeClient
}

// NewProxyHandler creates a ProxyHandler over the given provider clients.
func NewProxyHandler(
	weather *provider.WeatherClient,
	github *provider.GitHubClient,
	movies *provider.MovieClient,
	geocode *provider.GeocodeClient,
) *ProxyHandler {
	return &ProxyHandler{weather: weather, github: github, movies: movies, geocode: geocode}
}

// --- weather ---

// WeatherByCoords handles GET /api/weather/coords/{lat}/{lon}.
func (h *ProxyHandler) WeatherByCoords(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := pathCoords(r)
	if err != nil {
		writeError(w, err)
		return
	}
	conditions, err := h.weather.CurrentByCoords(r.Context(), lat, lon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conditions)
}

// WeatherByCity handles GET /api/weather/{city}.
func (h *ProxyHandler) WeatherByCity(w http.ResponseWriter, r *http.Request) {
	conditions, err := h.weather.CurrentByCity(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conditions)
}

// Forecast handles GET /api/weather/forecast/{city}.
func (h *ProxyHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.weather.ForecastByCity(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

// --- github ---

// GitHubUsers handles GET /api/github/users/{location}?page&per_page.
func (h *ProxyHandler) GitHubUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	result, err := h.github.SearchUsersByLocation(r.Context(), chi.URLParam(r, "location"), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GitHubRepos handles GET /api/github/repos/{location}?page&per_page.
func (h *ProxyHandler) GitHubRepos(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	result, err := h.github.SearchReposByLocation(r.Context(), chi.URLParam(r, "location"), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GitHubUser handles GET /api/github/user/{username}.
func (h *ProxyHandler) GitHubUser(w http.ResponseWriter, r *http.Request) {
	developer, err := h.github.User(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, developer)
}

// --- movies ---

// MovieSearch handles GET /api/movies/search/{query}?page.
func (h *ProxyHandler) MovieSearch(w http.ResponseWriter, r *http.Request) {
	page, _ := pageParams(r)
	result, err := h.movies.Search(r.Context(), chi.URLParam(r, "query"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// MoviePopular handles GET /api/movies/popular?page.
func (h *ProxyHandler) MoviePopular(w http.ResponseWriter, r *http.Request) {
	page, _ := pageParams(r)
	result, err := h.movies.Popular(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// MovieDetail handles GET /api/movies/detail/{movieId}.
func (h *ProxyHandler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("movieId", "movie ID must be an integer"))
		return
	}
	detail, err := h.movies.Detail(r.Context(), movieID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// --- geocoding ---

// GeocodeReverse handles GET /api/geocode/reverse/{lat}/{lon}.
func (h *ProxyHandler) GeocodeReverse(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := pathCoords(r)
	if err != nil {
		writeError(w, err)
		return
	}
	place, err := h.geocode.Reverse(r.Context(), lat, lon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// GeocodeSearch handles GET /api/geocode/search/{query}.
func (h *ProxyHandler) GeocodeSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.geocode.Search(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Health handles GET /api/health.
func (h *ProxyHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathCoords parses the {lat}/{lon} URL params and range-checks them.
func pathCoords(r *http.Request) (float64, float64, error) {
	lat, err := strconv.ParseFloat(chi.URLParam(r, "lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, apperror.ValidationFailed("lat", "latitude must be a number between -90 and 90")
	}
	lon, err := strconv.ParseFloat(chi.URLParam(r, "lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, apperror.ValidationFailed("lon", "longitude must be a number between -180 and 180")
	}
	return lat, lon, nil
}

// pageParams reads ?page and ?per_page, zero when absent; the provider
// clients apply their own defaults and caps.
func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	return page, perPage
}
