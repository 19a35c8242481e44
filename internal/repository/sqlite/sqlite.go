// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of the SQLite C
// sources, so no CGo and no cross-compilation pain. The blank import below
// registers it with database/sql under the driver name "sqlite".
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" works for tests) and runs
// migrations.
//
// WAL mode lets reads proceed while a write is in flight, which matters for
// a server where panel reads and history inserts overlap constantly.
// Foreign keys are off by default in SQLite; every user-owned table here
// relies on them, so they go on at connection time.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permissions problem now, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe against an existing database file.
func (db *DB) migrate() error {
	statements := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id                 TEXT PRIMARY KEY,
				email              TEXT NOT NULL UNIQUE,
				password_hash      TEXT NOT NULL,
				email_confirmed_at DATETIME,
				created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"profiles", `
			CREATE TABLE IF NOT EXISTS profiles (
				id           TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				username     TEXT NOT NULL UNIQUE,
				display_name TEXT NOT NULL DEFAULT '',
				avatar_url   TEXT NOT NULL DEFAULT '',
				created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"auth_tokens", `
			CREATE TABLE IF NOT EXISTS auth_tokens (
				token      TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				purpose    TEXT NOT NULL,
				expires_at DATETIME NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"saved_locations", `
			CREATE TABLE IF NOT EXISTS saved_locations (
				id               TEXT PRIMARY KEY,
				user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name             TEXT NOT NULL,
				city             TEXT NOT NULL,
				country          TEXT NOT NULL DEFAULT '',
				country_code     TEXT NOT NULL DEFAULT '',
				latitude         REAL NOT NULL,
				longitude        REAL NOT NULL,
				notes            TEXT NOT NULL DEFAULT '',
				category         TEXT NOT NULL DEFAULT 'general',
				is_favorite      INTEGER NOT NULL DEFAULT 0,
				weather_snapshot TEXT NOT NULL DEFAULT '{}',
				created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_saved_locations_user ON saved_locations(user_id, created_at);
		`},
		{"exploration_history", `
			CREATE TABLE IF NOT EXISTS exploration_history (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				city        TEXT NOT NULL,
				country     TEXT NOT NULL DEFAULT '',
				latitude    REAL NOT NULL,
				longitude   REAL NOT NULL,
				explored_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_exploration_history_user ON exploration_history(user_id, explored_at);
		`},
		{"city_reviews", `
			CREATE TABLE IF NOT EXISTS city_reviews (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				city        TEXT NOT NULL,
				country     TEXT NOT NULL DEFAULT '',
				title       TEXT NOT NULL,
				rating      INTEGER NOT NULL,
				review_text TEXT NOT NULL DEFAULT '',
				tags        TEXT NOT NULL DEFAULT '[]',
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_city_reviews_city ON city_reviews(city, created_at);
			CREATE INDEX IF NOT EXISTS idx_city_reviews_user ON city_reviews(user_id, created_at);
		`},
		{"api_usage_logs", `
			CREATE TABLE IF NOT EXISTS api_usage_logs (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL DEFAULT '',
				endpoint    TEXT NOT NULL,
				status      INTEGER NOT NULL,
				duration_ms INTEGER NOT NULL,
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt.sql); err != nil {
			return fmt.Errorf("creating %s: %w", stmt.name, err)
		}
	}
	return nil
}
