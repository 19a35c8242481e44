package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

var _ repository.APILogRepository = (*DB)(nil)

// InsertAPILog appends one usage-log row. Append-only: no read, update, or
// delete path exists in this package.
func (db *DB) InsertAPILog(ctx context.Context, entry *model.APILog) error {
	entry.ID = xid.New().String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO api_usage_logs (id, user_id, endpoint, status, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Endpoint, entry.Status, entry.DurationMS, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting api log: %w", err)
	}
	return nil
}
