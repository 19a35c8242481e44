package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

var _ repository.LocationRepository = (*DB)(nil)

// CreateLocation inserts a saved location. The weather snapshot is stored
// as the raw JSON the caller provided; "{}" when absent.
func (db *DB) CreateLocation(ctx context.Context, loc *model.SavedLocation) error {
	loc.ID = xid.New().String()
	loc.CreatedAt = time.Now()

	snapshot := loc.WeatherSnapshot
	if len(snapshot) == 0 {
		snapshot = json.RawMessage(`{}`)
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO saved_locations
		   (id, user_id, name, city, country, country_code, latitude, longitude,
		    notes, category, is_favorite, weather_snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loc.ID, loc.UserID, loc.Name, loc.City, loc.Country, loc.CountryCode,
		loc.Latitude, loc.Longitude, loc.Notes, loc.Category,
		loc.IsFavorite, string(snapshot), loc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating saved location: %w", err)
	}
	return nil
}

// ListLocationsByUser returns a user's saved locations, newest first.
func (db *DB) ListLocationsByUser(ctx context.Context, userID string) ([]model.SavedLocation, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, city, country, country_code, latitude, longitude,
		        notes, category, is_favorite, weather_snapshot, created_at
		 FROM saved_locations
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing saved locations: %w", err)
	}
	defer rows.Close()

	locations := make([]model.SavedLocation, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating saved locations: %w", err)
	}
	return locations, nil
}

// DeleteLocation removes a location owned by userID. The ownership check
// lives in the WHERE clause, so a mismatched user reads as not-found.
func (db *DB) DeleteLocation(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM saved_locations WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting saved location %s: %w", id, err)
	}
	return checkAffected(result, "location", id)
}

// SetFavorite updates the favorite flag and returns the updated row.
func (db *DB) SetFavorite(ctx context.Context, id, userID string, favorite bool) (*model.SavedLocation, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE saved_locations SET is_favorite = ? WHERE id = ? AND user_id = ?`,
		favorite, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: toggling favorite on %s: %w", id, err)
	}
	if err := checkAffected(result, "location", id); err != nil {
		return nil, err
	}

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, city, country, country_code, latitude, longitude,
		        notes, category, is_favorite, weather_snapshot, created_at
		 FROM saved_locations
		 WHERE id = ?`,
		id,
	)
	return scanLocation(row)
}

// rowScanner lets scanLocation serve both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*model.SavedLocation, error) {
	var loc model.SavedLocation
	var snapshot string
	err := row.Scan(
		&loc.ID, &loc.UserID, &loc.Name, &loc.City, &loc.Country, &loc.CountryCode,
		&loc.Latitude, &loc.Longitude, &loc.Notes, &loc.Category,
		&loc.IsFavorite, &snapshot, &loc.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("location", loc.ID)
		}
		return nil, fmt.Errorf("sqlite: scanning saved location: %w", err)
	}
	loc.WeatherSnapshot = json.RawMessage(snapshot)
	return &loc, nil
}
