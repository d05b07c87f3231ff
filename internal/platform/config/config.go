// Package config loads scheduler settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// Driver names accepted by DUETRACK_DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the scheduler binary needs. A single-subject
// deployment pins the subject ID via the environment; the default keeps a
// fresh install working without any setup.
type Config struct {
	DBDriver     string        `env:"DUETRACK_DB_DRIVER" envDefault:"sqlite"`
	SQLitePath   string        `env:"DUETRACK_SQLITE_PATH" envDefault:"data/duetrack.db"`
	PostgresDSN  string        `env:"DUETRACK_POSTGRES_DSN" envDefault:"host=localhost port=5432 user=postgres password=postgres dbname=duetrack sslmode=disable"`
	TickInterval time.Duration `env:"DUETRACK_TICK_INTERVAL" envDefault:"1h"`
	SubjectID    uuid.UUID     `env:"DUETRACK_SUBJECT_ID" envDefault:"00000000-0000-0000-0000-000000000001"`
	TrialDays    int           `env:"DUETRACK_TRIAL_DAYS" envDefault:"14"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}

	if c.TickInterval <= 0 {
		return errors.New("tick interval must be positive")
	}

	if c.TrialDays <= 0 {
		return errors.New("trial days must be positive")
	}

	if c.SubjectID == uuid.Nil {
		return errors.New("subject id cannot be the zero UUID")
	}

	return nil
}
