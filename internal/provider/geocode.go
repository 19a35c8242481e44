package provider

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"context"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/model"
)

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// GeocodeClient wraps the Mapbox forward and reverse geocoding APIs,
// restricted to place-level (city) features.
type GeocodeClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewGeocodeClient creates a GeocodeClient. An empty token produces a
// client whose calls answer apperror.Unavailable.
func NewGeocodeClient(token string) *GeocodeClient {
	return &GeocodeClient{
		token:   token,
		baseURL: mapboxBaseURL,
		http:    newHTTPClient(),
	}
}

// mapboxResponse is the slice of a Mapbox geocoding response we consume.
// Center is [lon, lat]; country name and ISO code come from the context
// chain (or from the feature itself when the hit is a country).
type mapboxResponse struct {
	Features []struct {
		Text      string    `json:"text"`
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
		Context   []struct {
			ID        string `json:"id"`
			Text      string `json:"text"`
			ShortCode string `json:"short_code"`
		} `json:"context"`
	} `json:"features"`
}

func (r *mapboxResponse) places() []model.Place {
	places := make([]model.Place, 0, len(r.Features))
	for _, f := range r.Features {
		p := model.Place{
			City:     f.Text,
			FullName: f.PlaceName,
		}
		if len(f.Center) == 2 {
			p.Coordinates = model.Coordinates{Lon: f.Center[0], Lat: f.Center[1]}
		}
		for _, c := range f.Context {
			if strings.HasPrefix(c.ID, "country.") {
				p.Country = c.Text
				p.CountryCode = strings.ToUpper(c.ShortCode)
			}
		}
		places = append(places, p)
	}
	return places
}

// Search resolves a typed query into up to five candidate places.
func (c *GeocodeClient) Search(ctx context.Context, query string) (*model.PlaceResults, error) {
	if c.token == "" {
		return nil, apperror.Unavailable("geocoding")
	}

	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("types", "place")
	q.Set("limit", "5")

	endpoint := fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(query), q.Encode())

	var raw mapboxResponse
	if err := getJSON(ctx, c.http, "mapbox", endpoint, &raw); err != nil {
		return nil, err
	}
	return &model.PlaceResults{Results: raw.places()}, nil
}

// Reverse resolves a coordinate pair into the place containing it.
// Returns NotFound when the point lies outside any known place.
func (c *GeocodeClient) Reverse(ctx context.Context, lat, lon float64) (*model.Place, error) {
	if c.token == "" {
		return nil, apperror.Unavailable("geocoding")
	}

	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("types", "place")
	q.Set("limit", "1")

	// Mapbox reverse geocoding takes "{lon},{lat}".
	endpoint := fmt.Sprintf("%s/%f,%f.json?%s", c.baseURL, lon, lat, q.Encode())

	var raw mapboxResponse
	if err := getJSON(ctx, c.http, "mapbox", endpoint, &raw); err != nil {
		return nil, err
	}

	places := raw.places()
	if len(places) == 0 {
		return nil, apperror.NotFound("place", fmt.Sprintf("%.4f,%.4f", lat, lon))
	}
	return &places[0], nil
}
