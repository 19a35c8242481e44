package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

var _ repository.HistoryRepository = (*DB)(nil)

// CreateExploration appends an exploration entry. There is no update or
// delete counterpart — history rows are immutable.
func (db *DB) CreateExploration(ctx context.Context, e *model.Exploration) error {
	e.ID = xid.New().String()
	if e.ExploredAt.IsZero() {
		e.ExploredAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO exploration_history (id, user_id, city, country, latitude, longitude, explored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.City, e.Country, e.Latitude, e.Longitude, e.ExploredAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating exploration: %w", err)
	}
	return nil
}

// ListExplorationsByUser returns the newest entries first, at most limit.
func (db *DB) ListExplorationsByUser(ctx context.Context, userID string, limit int) ([]model.Exploration, error) {
	if limit <= 0 || limit > model.HistoryReadLimit {
		limit = model.HistoryReadLimit
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, city, country, latitude, longitude, explored_at
		 FROM exploration_history
		 WHERE user_id = ?
		 ORDER BY explored_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing explorations: %w", err)
	}
	defer rows.Close()

	entries := make([]model.Exploration, 0, limit)
	for rows.Next() {
		var e model.Exploration
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.City, &e.Country,
			&e.Latitude, &e.Longitude, &e.ExploredAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning exploration: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating explorations: %w", err)
	}
	return entries, nil
}
