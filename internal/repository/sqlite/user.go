package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

// Compile-time interface checks: the compiler errors immediately if *DB
// stops implementing a repository interface.
var (
	_ repository.UserRepository  = (*DB)(nil)
	_ repository.TokenRepository = (*DB)(nil)
)

// CreateUser inserts the user and its initial profile in one transaction —
// a user without a profile must never be observable.
func (db *DB) CreateUser(ctx context.Context, user *model.User, profile *model.Profile) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	profile.ID = user.ID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, email_confirmed_at, created_at, updated_at)
		 VALUES (?, ?, ?, NULL, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, username, display_name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.Username, profile.DisplayName, profile.AvatarURL,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("profile", profile.Username)
		}
		return fmt.Errorf("sqlite: creating profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user creation: %w", err)
	}
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, email_confirmed_at, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.EmailConfirmedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &user, nil
}

// ConfirmEmail marks the account's email as verified. Confirming an
// already-confirmed account is a no-op, not an error — the user may click
// the link twice.
func (db *DB) ConfirmEmail(ctx context.Context, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET email_confirmed_at = COALESCE(email_confirmed_at, ?), updated_at = ?
		 WHERE id = ?`,
		time.Now(), time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: confirming email for %s: %w", userID, err)
	}
	return checkAffected(result, "user", userID)
}

func (db *DB) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for %s: %w", userID, err)
	}
	return checkAffected(result, "user", userID)
}

func (db *DB) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, display_name, avatar_url, created_at, updated_at
		 FROM profiles
		 WHERE id = ?`,
		userID,
	).Scan(&p.ID, &p.Username, &p.DisplayName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", userID)
		}
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", userID, err)
	}
	return &p, nil
}

func (db *DB) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE profiles
		 SET username = ?, display_name = ?, avatar_url = ?, updated_at = ?
		 WHERE id = ?`,
		profile.Username, profile.DisplayName, profile.AvatarURL,
		profile.UpdatedAt, profile.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("profile", profile.Username)
		}
		return fmt.Errorf("sqlite: updating profile %s: %w", profile.ID, err)
	}
	return checkAffected(result, "profile", profile.ID)
}

// CreateToken inserts a single-use auth token.
func (db *DB) CreateToken(ctx context.Context, token *model.AuthToken) error {
	token.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id, purpose, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		token.Token, token.UserID, token.Purpose, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating auth token: %w", err)
	}
	return nil
}

// ConsumeToken deletes the token and returns its owner. The DELETE's WHERE
// clause carries every validity condition, so consuming is atomic: two
// racing consumers cannot both succeed.
func (db *DB) ConsumeToken(ctx context.Context, token, purpose string) (string, error) {
	var userID string
	err := db.conn.QueryRowContext(ctx,
		`DELETE FROM auth_tokens
		 WHERE token = ? AND purpose = ? AND expires_at > ?
		 RETURNING user_id`,
		token, purpose, time.Now(),
	).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.NotFound("token", token)
		}
		return "", fmt.Errorf("sqlite: consuming auth token: %w", err)
	}
	return userID, nil
}

// isUniqueViolation detects a UNIQUE constraint failure. modernc.org/sqlite
// does not export a typed error for this, so the message is the contract.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// checkAffected translates "zero rows touched" into a not-found error.
func checkAffected(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
