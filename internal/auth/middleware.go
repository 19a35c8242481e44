package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of this type, so no other package can
// read or shadow the userID value in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is a middleware that enforces authentication on protected
// routes. It reads the bearer token from the Authorization header,
// validates it with session scope, and stores the userID in the request
// context. Missing or invalid tokens end the chain with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return requireScope(tokens, ScopeSession)
}

// RequireRecovery enforces a recovery-scoped token. It guards exactly one
// route — update-password — so a stolen session token cannot rotate a
// password, and a recovery token cannot do anything else.
func RequireRecovery(tokens *TokenService) func(http.Handler) http.Handler {
	return requireScope(tokens, ScopeRecovery)
}

func requireScope(tokens *TokenService, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens, scope)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized","message":"valid authentication required"}`)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the user identity if a valid session token is
// present but never blocks the request. Used on routes that serve both
// anonymous and signed-in callers — the usage-log middleware attributes
// requests to a user when it can.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens, ScopeSession); err == nil && userID != "" {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID reads "Authorization: Bearer <jwt>" and validates it.
func extractUserID(r *http.Request, tokens *TokenService, scope string) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("auth: missing Authorization header")
	}

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return "", fmt.Errorf("auth: malformed Authorization header")
	}

	return tokens.Validate(tokenStr, scope)
}
