// Package service contains the business logic layer: validation, permission
// rules, and orchestration between repositories, providers, and the mailer.
// Handlers above it speak HTTP; repositories below it speak SQL; this layer
// speaks neither.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/auth"
	"github.com/mveraz/citypulse/internal/mailer"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

// Validation constants.
const (
	MinPasswordLength = 6
	MaxEmailLength    = 254
)

// One-time token lifetimes. The confirm token lives long enough to survive
// a slow inbox; the recover token does not need to.
const (
	confirmTokenTTL = 24 * time.Hour
	recoverTokenTTL = time.Hour
)

// resendCooldown throttles confirmation re-sends per email address.
const resendCooldown = 30 * time.Second

// AuthService implements account lifecycle: sign-up with email confirmation,
// sign-in, password recovery, and the one-time token exchanges behind the
// emailed links.
type AuthService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	password *auth.PasswordService
	jwt      *auth.TokenService
	mail     mailer.Mailer
	baseURL  string
	logger   *slog.Logger

	// now is swapped out in tests to step through the resend cooldown.
	now func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// NewAuthService creates an AuthService. baseURL is the externally reachable
// origin used to build the links embedded in account emails.
func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	password *auth.PasswordService,
	jwt *auth.TokenService,
	mail mailer.Mailer,
	baseURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		password: password,
		jwt:      jwt,
		mail:     mail,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
}

// SignUp registers a new account and sends the confirmation email. The
// account cannot sign in until the emailed link is followed.
func (s *AuthService) SignUp(ctx context.Context, email, password, username string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(password) < MinPasswordLength {
		return nil, &apperror.AppError{
			Err:     apperror.ErrValidation,
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
			Field:   "password",
			Code:    "weak_password",
		}
	}

	hash, err := s.password.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash}
	profile := &model.Profile{Username: username, DisplayName: username}
	if err := s.users.CreateUser(ctx, user, profile); err != nil {
		if code := conflictCode(err); code != "" {
			return nil, &apperror.AppError{
				Err:     apperror.ErrConflict,
				Message: "an account with that email or username already exists",
				Code:    code,
			}
		}
		s.logger.Error("sign-up failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("signing up: %w", err)
	}

	if err := s.sendConfirmation(ctx, user); err != nil {
		// The account exists; the user can ask for a re-send.
		s.logger.Error("confirmation email failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("user signed up",
		slog.String("id", user.ID),
		slog.String("email", email),
	)
	return user, nil
}

// SignIn verifies credentials and returns a session token with the user.
//
// Unknown email and wrong password both read as invalid_credentials, so a
// caller cannot probe which addresses have accounts. An unconfirmed account
// gets its own code — the client shows the check-your-email view for it.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, apperror.Unauthorized("invalid_credentials", "invalid email or password")
	}
	if err := s.password.Verify(user.PasswordHash, password); err != nil {
		return "", nil, apperror.Unauthorized("invalid_credentials", "invalid email or password")
	}
	if !user.Confirmed() {
		return "", nil, apperror.Unauthorized("email_not_confirmed", "email address has not been confirmed")
	}

	token, err := s.jwt.GenerateSession(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("signing in: %w", err)
	}

	s.logger.Info("user signed in", slog.String("id", user.ID))
	return token, user, nil
}

// ConfirmEmail consumes a confirmation token and marks the account verified.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.ConsumeToken(ctx, token, model.TokenPurposeConfirm)
	if err != nil {
		return err
	}
	if err := s.users.ConfirmEmail(ctx, userID); err != nil {
		return fmt.Errorf("confirming email: %w", err)
	}
	s.logger.Info("email confirmed", slog.String("id", userID))
	return nil
}

// ExchangeRecovery consumes a recovery token from a password-reset link and
// returns a short-lived recovery session. Its only power is the
// update-password operation.
func (s *AuthService) ExchangeRecovery(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.ConsumeToken(ctx, token, model.TokenPurposeRecover)
	if err != nil {
		return "", err
	}
	recovery, err := s.jwt.GenerateRecovery(userID)
	if err != nil {
		return "", fmt.Errorf("exchanging recovery token: %w", err)
	}
	s.logger.Info("recovery session issued", slog.String("id", userID))
	return recovery, nil
}

// ResetPassword sends a password-reset email. It returns nil for unknown
// addresses too — the response never reveals whether an account exists.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Info("password reset for unknown email", slog.String("email", email))
		return nil
	}

	token := &model.AuthToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Purpose:   model.TokenPurposeRecover,
		ExpiresAt: s.now().Add(recoverTokenTTL),
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}

	link := fmt.Sprintf("%s/auth/confirm?token=%s&mode=reset", s.baseURL, url.QueryEscape(token.Token))
	if err := s.mail.SendPasswordReset(ctx, email, link); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}

	s.logger.Info("password reset email sent", slog.String("id", user.ID))
	return nil
}

// ResendConfirmation sends a fresh confirmation email for an unconfirmed
// account. Repeated requests inside the cooldown window are rate limited.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}

	if !s.allowSend(email) {
		return apperror.RateLimited("please wait before requesting another email")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		// Same non-answer as ResetPassword: no account enumeration.
		return nil
	}
	if user.Confirmed() {
		return nil
	}

	return s.sendConfirmation(ctx, user)
}

// UpdatePassword sets a new password for the user behind a recovery session.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return &apperror.AppError{
			Err:     apperror.ErrValidation,
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
			Field:   "password",
			Code:    "weak_password",
		}
	}

	hash, err := s.password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info("password updated", slog.String("id", userID))
	return nil
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *model.User) error {
	token := &model.AuthToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Purpose:   model.TokenPurposeConfirm,
		ExpiresAt: s.now().Add(confirmTokenTTL),
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return fmt.Errorf("creating confirmation token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/confirm?token=%s", s.baseURL, url.QueryEscape(token.Token))
	if err := s.mail.SendConfirmation(ctx, user.Email, link); err != nil {
		return fmt.Errorf("sending confirmation email: %w", err)
	}

	s.markSent(user.Email)
	return nil
}

// allowSend reports whether email is outside its resend cooldown window.
func (s *AuthService) allowSend(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastSent[email]
	return !ok || s.now().Sub(last) >= resendCooldown
}

func (s *AuthService) markSent(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSent[email] = s.now()
}

func validateEmail(email string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return apperror.ValidationFailed("email", "email is too long")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return apperror.ValidationFailed("email", "email address is not valid")
	}
	return nil
}

// conflictCode maps a repository conflict to the stable code clients
// translate. Non-conflict errors map to "".
func conflictCode(err error) string {
	if errors.Is(err, apperror.ErrConflict) {
		return "user_already_exists"
	}
	return ""
}
