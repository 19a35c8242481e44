package model

import "time"

// Exploration records a signed-in user viewing a city's data.
//
// Rows are written fire-and-forget whenever city data loads, are immutable
// once created (no update or delete path exists), and reads are capped to
// the 50 most recent entries.
type Exploration struct {
	ID         string    `json:"id"         db:"id"`
	UserID     string    `json:"userId"     db:"user_id"`
	City       string    `json:"city"       db:"city"`
	Country    string    `json:"country"    db:"country"`
	Latitude   float64   `json:"latitude"   db:"latitude"`
	Longitude  float64   `json:"longitude"  db:"longitude"`
	ExploredAt time.Time `json:"exploredAt" db:"explored_at"`
}

// HistoryReadLimit is the maximum number of exploration entries returned
// by a read, newest first.
const HistoryReadLimit = 50
