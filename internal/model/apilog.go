package model

import "time"

// APILog is one row of the append-only API usage log. Rows are written
// best-effort by middleware; there is no read path in the API.
type APILog struct {
	ID         string    `json:"id"         db:"id"`
	UserID     string    `json:"userId"     db:"user_id"` // empty for anonymous calls
	Endpoint   string    `json:"endpoint"   db:"endpoint"`
	Status     int       `json:"status"     db:"status"`
	DurationMS int64     `json:"durationMs" db:"duration_ms"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}
