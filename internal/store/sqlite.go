// Package store provides SQLite-backed persistence for startups and their
// versioned snapshot history.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS startups (
	id         TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS snapshots (
	startup_id                  TEXT NOT NULL REFERENCES startups(id),
	version                     INTEGER NOT NULL,
	timestamp                   DATETIME NOT NULL,
	problem                     TEXT,
	target_user                 TEXT,
	job_to_be_done              TEXT,
	solution                    TEXT,
	value_prop                  TEXT,
	primary_channel_type        TEXT,
	primary_channel_description TEXT,
	hypothesis                  TEXT,
	metric                      TEXT,
	timeframe                   TEXT,
	tech_feasibility_notes      TEXT,
	top_risks                   TEXT NOT NULL DEFAULT '[]',
	declared_next_steps         TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (startup_id, version)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_startup ON snapshots(startup_id);
`

// DB wraps a sql.DB with snapshot-history operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
