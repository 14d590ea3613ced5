package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableSessions      = "sessions"
	tableLLMEvents     = "llm_request_events"
	tableSessionEvents = "session_events"
	tableSequence      = "global_sequence"
)

// schema is applied on every open. Timestamps are unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id             TEXT    PRIMARY KEY,
		candidate_name TEXT    NOT NULL DEFAULT '',
		current_round  TEXT    NOT NULL,
		is_completed   INTEGER NOT NULL DEFAULT 0,
		data           TEXT    NOT NULL,
		created_at     INTEGER NOT NULL,
		updated_at     INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(is_completed, updated_at)`,

	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_purpose   ON llm_request_events(purpose)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_timestamp ON llm_request_events(timestamp)`,

	`CREATE TABLE IF NOT EXISTS session_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence    INTEGER NOT NULL,
		timestamp   INTEGER NOT NULL,
		session_id  TEXT    NOT NULL,
		action      TEXT    NOT NULL,
		round       TEXT    NOT NULL DEFAULT '',
		question_id TEXT    NOT NULL DEFAULT '',
		score       REAL    NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_events_session   ON session_events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_session_events_timestamp ON session_events(timestamp)`,

	`CREATE TABLE IF NOT EXISTS global_sequence (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
}

// migrate creates any missing tables and indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
