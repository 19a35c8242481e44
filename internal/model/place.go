package model

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a canonical geocoding result: the resolution of a typed query or
// a map click into a city the rest of the system can pivot on.
//
// It is transient — never persisted as-is. Saving one produces a
// SavedLocation; exploring one produces an Exploration.
type Place struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	CountryCode string      `json:"country_code,omitempty"`
	FullName    string      `json:"full_name"`
	Coordinates Coordinates `json:"coordinates"`
}

// PlaceResults wraps a place search response.
type PlaceResults struct {
	Results []Place `json:"results"`
}
