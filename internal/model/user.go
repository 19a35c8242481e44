// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Identity is email/password based. The account is created by sign-up and
// must confirm its email before it can sign in — EmailConfirmedAt stays nil
// until the confirmation link is followed.
//
// PasswordHash is never serialized: the json:"-" tag keeps it out of every
// API response, no matter which handler returns the user.
type User struct {
	ID               string     `json:"id"                db:"id"`
	Email            string     `json:"email"             db:"email"`
	PasswordHash     string     `json:"-"                 db:"password_hash"`
	EmailConfirmedAt *time.Time `json:"emailConfirmedAt"  db:"email_confirmed_at"`
	CreatedAt        time.Time  `json:"createdAt"         db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt"         db:"updated_at"`
}

// Confirmed reports whether the account's email address has been verified.
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

// Profile is the public face of a User, one-to-one by ID.
// It is created implicitly at sign-up from the registration metadata
// (username doubles as the initial display name) and is updatable afterwards.
type Profile struct {
	ID          string    `json:"id"          db:"id"`
	Username    string    `json:"username"    db:"username"`
	DisplayName string    `json:"displayName" db:"display_name"`
	AvatarURL   string    `json:"avatarUrl"   db:"avatar_url"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
