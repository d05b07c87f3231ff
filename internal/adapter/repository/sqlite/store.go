// Package sqlite provides the SQLite-backed store for a single-subject
// DueTrack deployment.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"database/sql"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle shared by the per-entity repositories.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies the
// idempotent schema migration.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// WAL for concurrent readers; a single writer is all SQLite supports
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS habit_rules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		frequency_type TEXT NOT NULL,
		weekdays TEXT NOT NULL DEFAULT '',
		month_days TEXT NOT NULL DEFAULT '',
		times_count INTEGER NOT NULL DEFAULT 0,
		valid_from TEXT,
		valid_until TEXT
	);

	CREATE TABLE IF NOT EXISTS habit_completions (
		rule_id TEXT NOT NULL,
		day TEXT NOT NULL,
		percent INTEGER NOT NULL,
		PRIMARY KEY (rule_id, day),
		FOREIGN KEY (rule_id) REFERENCES habit_rules(id)
	);

	CREATE TABLE IF NOT EXISTS charge_rules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		category_id TEXT NOT NULL,
		anchor_day INTEGER NOT NULL,
		duration_limit INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS charge_ledgers (
		rule_id TEXT PRIMARY KEY,
		last_executed TEXT
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		system_generated INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);

	CREATE TABLE IF NOT EXISTS income_records (
		period TEXT PRIMARY KEY,
		amount TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entitlement_windows (
		subject_id TEXT PRIMARY KEY,
		anchor_time TEXT NOT NULL,
		window_days INTEGER NOT NULL,
		override TEXT NOT NULL,
		override_expiry TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}
