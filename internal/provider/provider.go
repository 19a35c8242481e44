// Package provider contains the thin HTTP clients for the third-party data
// services the proxy namespaces are built on: OpenWeather, the GitHub search
// API, TMDB, and Mapbox geocoding.
//
// Every client follows the same rules: a fixed 15-second timeout, no retry,
// no caching, typed partial DTOs (we unmarshal only the fields we serve),
// and non-2xx responses surfaced as apperror.Upstream so callers can render
// an empty panel instead of crashing. A client constructed without a
// credential stays usable but answers apperror.Unavailable — the namespace
// degrades, the server keeps running.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mveraz/citypulse/internal/apperror"
)

const requestTimeout = 15 * time.Second

const userAgent = "CityPulse/1.0 (+https://citypulse.local)"

// newHTTPClient returns the shared client configuration for all providers.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// getJSON issues a GET against url and decodes the JSON body into v.
//
// name identifies the provider in errors and logs. Rate-limit responses get
// their own error so the status passes through to the caller unchanged.
func getJSON(ctx context.Context, client *http.Client, name, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("provider: building %s request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("provider: calling %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return apperror.RateLimited(fmt.Sprintf("%s rate limit exceeded", name))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperror.Upstream(name, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("provider: decoding %s response: %w", name, err)
	}
	return nil
}
