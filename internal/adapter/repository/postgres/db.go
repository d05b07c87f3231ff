// Package postgres provides the PostgreSQL-backed store for multi-process
// DueTrack deployments where several schedulers may tick concurrently.
package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=duetrack sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// EnsureSchema applies the idempotent schema migration.
func (db *DB) EnsureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS habit_rules (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		frequency_type TEXT NOT NULL,
		weekdays INTEGER[] NOT NULL DEFAULT '{}',
		month_days INTEGER[] NOT NULL DEFAULT '{}',
		times_count INTEGER NOT NULL DEFAULT 0,
		valid_from DATE,
		valid_until DATE
	);

	CREATE TABLE IF NOT EXISTS habit_completions (
		rule_id UUID NOT NULL REFERENCES habit_rules(id),
		day DATE NOT NULL,
		percent INTEGER NOT NULL,
		PRIMARY KEY (rule_id, day)
	);

	CREATE TABLE IF NOT EXISTS charge_rules (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		amount NUMERIC(20, 8) NOT NULL,
		category_id UUID NOT NULL,
		anchor_day INTEGER NOT NULL,
		duration_limit INTEGER,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS charge_ledgers (
		rule_id UUID PRIMARY KEY,
		last_executed TEXT
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		category_id UUID NOT NULL,
		amount NUMERIC(20, 8) NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		system_generated BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);

	CREATE TABLE IF NOT EXISTS income_records (
		period TEXT PRIMARY KEY,
		amount NUMERIC(20, 8) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entitlement_windows (
		subject_id UUID PRIMARY KEY,
		anchor_time TIMESTAMPTZ NOT NULL,
		window_days INTEGER NOT NULL,
		override TEXT NOT NULL,
		override_expiry TIMESTAMPTZ
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
