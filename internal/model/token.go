package model

import "time"

// Auth token purposes.
const (
	TokenPurposeConfirm = "confirm"
	TokenPurposeRecover = "recover"
)

// AuthToken is a single-use, expiring token backing the email confirmation
// and password-recovery links. The token value itself is the primary key;
// consuming it deletes the row.
type AuthToken struct {
	Token     string    `json:"-" db:"token"`
	UserID    string    `json:"-" db:"user_id"`
	Purpose   string    `json:"-" db:"purpose"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}
