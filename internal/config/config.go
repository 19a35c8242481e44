// Package config loads server configuration from the environment.
//
// A .env file in the working directory is merged in first (handy for local
// development); real environment variables always win. Provider keys are
// optional on purpose — a missing key degrades that one namespace to
// "unavailable" responses instead of stopping the server from booting.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// Third-party provider credentials. Any of these may be empty.
	OpenWeatherKey string
	GitHubToken    string
	TMDBKey        string
	MapboxToken    string

	// BaseURL is the externally visible origin, used to build the links
	// embedded in confirmation and password-reset emails.
	BaseURL string

	CORSOrigin string
}

// Load reads configuration from the environment (plus .env if present).
// JWT_SECRET is the only hard requirement — without it no session can be
// issued or validated.
func Load() (*Config, error) {
	_ = godotenv.Load() // ok if missing in prod

	port := 8080
	if v := os.Getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		port = n
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}

	cfg := &Config{
		Port:           port,
		DBPath:         getenvDefault("DB_PATH", "data/citypulse.db"),
		JWTSecret:      secret,
		OpenWeatherKey: os.Getenv("OPENWEATHER_API_KEY"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		TMDBKey:        os.Getenv("TMDB_API_KEY"),
		MapboxToken:    os.Getenv("MAPBOX_TOKEN"),
		BaseURL:        getenvDefault("BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
		CORSOrigin:     getenvDefault("CORS_ORIGIN", "*"),
	}

	return cfg, nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
