// Package store persists triage sessions, protocol sequences and handoff
// receipts in SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// Open creates a SQLite database connection and applies the schema.
func Open(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialize access through one connection so concurrent protocol
	// allocation and aggregate writes wait on each other instead of failing
	// with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	wrapped := &DB{db}
	if err := wrapped.migrate(); err != nil {
		return nil, err
	}
	return wrapped, nil
}

func (db *DB) migrate() error {
	migration := `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL CHECK(state IN ('collecting', 'analyzing', 'questioning', 'synthesizing', 'completed', 'failed')),
    client_name TEXT NOT NULL,
    client_email TEXT NOT NULL,
    case_description TEXT NOT NULL,
    analysis_json TEXT,
    questions_json TEXT NOT NULL DEFAULT '[]',
    answers_json TEXT NOT NULL DEFAULT '{}',
    failure_reason TEXT NOT NULL DEFAULT '',
    failed_from TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_state ON sessions(state);

CREATE TABLE IF NOT EXISTS syntheses (
    protocol_number TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    generated_at TIMESTAMP NOT NULL,
    legal_area TEXT NOT NULL,
    urgency TEXT NOT NULL CHECK(urgency IN ('low', 'medium', 'high')),
    summary TEXT NOT NULL,
    full_analysis_text TEXT NOT NULL,
    disclaimer TEXT NOT NULL,
    FOREIGN KEY (session_id) REFERENCES sessions(id)
);
CREATE INDEX IF NOT EXISTS idx_syntheses_session ON syntheses(session_id);

CREATE TABLE IF NOT EXISTS handoffs (
    protocol_number TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    acknowledged_at TIMESTAMP NOT NULL,
    FOREIGN KEY (protocol_number) REFERENCES syntheses(protocol_number)
);

CREATE TABLE IF NOT EXISTS protocol_sequence (
    year INTEGER PRIMARY KEY,
    next INTEGER NOT NULL
);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
