package handler

import (
	"net/http"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/auth"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/service"
)

// AuthHandler serves the account lifecycle endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	profile *service.ProfileService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, profileSvc *service.ProfileService) *AuthHandler {
	return &AuthHandler{auth: authSvc, profile: profileSvc}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	User        *model.User `json:"user"`
}

// SignUp handles POST /auth/signup. The new account must confirm its email
// before it can sign in, so no session is returned here.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    user,
		"message": "confirmation email sent",
	})
}

// SignIn handles POST /auth/signin and returns a session token.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, user, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		AccessToken: token,
		TokenType:   "session",
		User:        user,
	})
}

// SignOut handles POST /auth/signout. Sessions are stateless JWTs, so there
// is nothing to revoke server-side; the call exists so clients have a single
// place to discard their token, and it is idempotent — signing out without a
// session is still a 204.
func (h *AuthHandler) SignOut(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Confirm handles GET /auth/confirm?token=...&mode=... — the landing point
// of both emailed links. Without a mode it consumes a confirmation token and
// verifies the address. With mode=reset it consumes a recovery token and
// returns a short-lived recovery session for the update-password call.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, apperror.ValidationFailed("token", "token is required"))
		return
	}

	if r.URL.Query().Get("mode") == "reset" {
		recovery, err := h.auth.ExchangeRecovery(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"accessToken": recovery,
			"tokenType":   "recovery",
		})
		return
	}

	if err := h.auth.ConfirmEmail(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "email confirmed"})
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResetPassword handles POST /auth/reset-password. The response is the same
// whether or not the address has an account.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset email sent"})
}

// ResendConfirmation handles POST /auth/resend-confirmation.
func (h *AuthHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.ResendConfirmation(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "confirmation email sent"})
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword handles POST /auth/update-password. The route is guarded
// by RequireRecovery, so the context user comes from a recovery token.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req updatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.UpdatePassword(r.Context(), userID, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Me handles GET /api/me and returns the account behind the session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.profile.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
