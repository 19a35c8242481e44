// Package auth provides JWT session tokens, bcrypt password hashing, and the
// HTTP middleware that guards protected routes.
//
// Two kinds of token exist, distinguished by a "scope" claim:
//
//   - session:  issued on sign-in, grants access to the /api data routes
//   - recovery: issued when a password-reset link is followed; its only
//     power is calling the update-password endpoint
//
// Both are HS256-signed JWTs. The server keeps no session state — the signed
// token carries everything (subject, scope, expiry), so sign-out is purely a
// client-side discard and is naturally idempotent.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token scopes.
const (
	ScopeSession  = "session"
	ScopeRecovery = "recovery"
)

// Token lifetimes. Recovery tokens are short — they exist only to bridge
// the gap between clicking an emailed link and submitting a new password.
const (
	sessionTTL  = 24 * time.Hour
	recoveryTTL = 15 * time.Minute
)

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used to sign and verify; the same secret must serve both.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload: the registered claims plus our scope.
// "sub" carries the internal user ID.
type claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateSession creates a signed session token for the given userID.
func (s *TokenService) GenerateSession(userID string) (string, error) {
	return s.generate(userID, ScopeSession, sessionTTL)
}

// GenerateRecovery creates a short-lived recovery token for the given
// userID. It is embedded in the password-reset redirect and exchanged for
// exactly one operation: setting a new password.
func (s *TokenService) GenerateRecovery(userID string) (string, error) {
	return s.generate(userID, ScopeRecovery, recoveryTTL)
}

func (s *TokenService) generate(userID, scope string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "citypulse",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and checks its scope.
// Returns the userID from the "sub" claim if everything holds.
//
// Passing jwt.WithValidMethods pins the algorithm to HS256 so a token
// signed with "none" (or anything else) is rejected outright.
func (s *TokenService) Validate(tokenStr, wantScope string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("citypulse"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}
	if c.Scope != wantScope {
		return "", fmt.Errorf("auth: token scope %q, want %q", c.Scope, wantScope)
	}

	return c.Subject, nil
}
