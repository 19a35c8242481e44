package model

import (
	"encoding/json"
	"time"
)

// Location categories. Anything outside this set is stored as "general".
const (
	CategoryGeneral = "general"
	CategoryTravel  = "travel"
	CategoryWork    = "work"
	CategoryFood    = "food"
	CategoryCulture = "culture"
	CategoryNature  = "nature"
)

// Categories lists the valid saved-location categories in display order.
var Categories = []string{
	CategoryGeneral,
	CategoryTravel,
	CategoryWork,
	CategoryFood,
	CategoryCulture,
	CategoryNature,
}

// NormalizeCategory maps an arbitrary category string onto the enumerated
// set, defaulting to "general" for anything unknown or empty.
func NormalizeCategory(c string) string {
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryGeneral
}

// SavedLocation is a city bookmarked by a user.
//
// WeatherSnapshot is a denormalized copy of whatever current-conditions
// record was on screen when the user hit save. It is stored as raw JSON and
// never interpreted server-side — reads return it byte-for-byte as written.
type SavedLocation struct {
	ID              string          `json:"id"              db:"id"`
	UserID          string          `json:"userId"          db:"user_id"`
	Name            string          `json:"name"            db:"name"`
	City            string          `json:"city"            db:"city"`
	Country         string          `json:"country"         db:"country"`
	CountryCode     string          `json:"countryCode"     db:"country_code"`
	Latitude        float64         `json:"latitude"        db:"latitude"`
	Longitude       float64         `json:"longitude"       db:"longitude"`
	Notes           string          `json:"notes"           db:"notes"`
	Category        string          `json:"category"        db:"category"`
	IsFavorite      bool            `json:"isFavorite"      db:"is_favorite"`
	WeatherSnapshot json.RawMessage `json:"weatherSnapshot" db:"weather_snapshot"`
	CreatedAt       time.Time       `json:"createdAt"       db:"created_at"`
}
