package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mveraz/citypulse/internal/model"
)

// Developer search defaults, applied when the caller passes zero values.
const (
	DefaultPage           = 1
	DefaultDevelopersPage = 12
	DefaultReposPage      = 10
)

// WeatherByCoords fetches current conditions for a coordinate pair.
func (c *Client) WeatherByCoords(ctx context.Context, lat, lon float64) (*model.CurrentConditions, error) {
	var out model.CurrentConditions
	path := fmt.Sprintf("/api/weather/coords/%g/%g", lat, lon)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WeatherByCity fetches current conditions by city name.
func (c *Client) WeatherByCity(ctx context.Context, city string) (*model.CurrentConditions, error) {
	var out model.CurrentConditions
	if err := c.get(ctx, "/api/weather/"+url.PathEscape(city), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast fetches the multi-day forecast for a city.
func (c *Client) Forecast(ctx context.Context, city string) (*model.Forecast, error) {
	var out model.Forecast
	if err := c.get(ctx, "/api/weather/forecast/"+url.PathEscape(city), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchDevelopers finds GitHub users in a location. Zero page/perPage fall
// back to the defaults (page 1, 12 per page).
func (c *Client) SearchDevelopers(ctx context.Context, location string, page, perPage int) (*model.DeveloperSearch, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if perPage <= 0 {
		perPage = DefaultDevelopersPage
	}
	var out model.DeveloperSearch
	path := fmt.Sprintf("/api/github/users/%s?page=%d&per_page=%d", url.PathEscape(location), page, perPage)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchRepos finds repositories from a location.
func (c *Client) SearchRepos(ctx context.Context, location string, page, perPage int) (*model.RepoSearch, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if perPage <= 0 {
		perPage = DefaultReposPage
	}
	var out model.RepoSearch
	path := fmt.Sprintf("/api/github/repos/%s?page=%d&per_page=%d", url.PathEscape(location), page, perPage)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Developer fetches a single GitHub user's full profile.
func (c *Client) Developer(ctx context.Context, username string) (*model.Developer, error) {
	var out model.Developer
	if err := c.get(ctx, "/api/github/user/"+url.PathEscape(username), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchMovies searches films by title.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*model.MovieSearch, error) {
	if page <= 0 {
		page = DefaultPage
	}
	var out model.MovieSearch
	path := fmt.Sprintf("/api/movies/search/%s?page=%d", url.PathEscape(query), page)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PopularMovies fetches the popular list.
func (c *Client) PopularMovies(ctx context.Context, page int) (*model.MovieSearch, error) {
	if page <= 0 {
		page = DefaultPage
	}
	var out model.MovieSearch
	if err := c.get(ctx, fmt.Sprintf("/api/movies/popular?page=%d", page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovieDetail fetches a single film with runtime, genres, and tagline.
func (c *Client) MovieDetail(ctx context.Context, movieID int64) (*model.MovieDetail, error) {
	var out model.MovieDetail
	if err := c.get(ctx, fmt.Sprintf("/api/movies/detail/%d", movieID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReverseGeocode resolves a coordinate pair to the nearest place.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*model.Place, error) {
	var out model.Place
	if err := c.get(ctx, fmt.Sprintf("/api/geocode/reverse/%g/%g", lat, lon), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPlaces finds place candidates for a free-text query.
func (c *Client) SearchPlaces(ctx context.Context, query string) (*model.PlaceResults, error) {
	var out model.PlaceResults
	if err := c.get(ctx, "/api/geocode/search/"+url.PathEscape(query), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil)
}
