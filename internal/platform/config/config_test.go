package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "data/duetrack.db", cfg.SQLitePath)
	assert.Equal(t, time.Hour, cfg.TickInterval)
	assert.Equal(t, 14, cfg.TrialDays)
	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000001"), cfg.SubjectID)
}

func TestLoad_Overrides(t *testing.T) {
	subject := uuid.New()
	t.Setenv("DUETRACK_DB_DRIVER", "postgres")
	t.Setenv("DUETRACK_TICK_INTERVAL", "15m")
	t.Setenv("DUETRACK_TRIAL_DAYS", "7")
	t.Setenv("DUETRACK_SUBJECT_ID", subject.String())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.TickInterval)
	assert.Equal(t, 7, cfg.TrialDays)
	assert.Equal(t, subject, cfg.SubjectID)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		errMsg string
	}{
		{
			name:   "unknown driver",
			key:    "DUETRACK_DB_DRIVER",
			value:  "mysql",
			errMsg: "unsupported db driver",
		},
		{
			name:   "negative interval",
			key:    "DUETRACK_TICK_INTERVAL",
			value:  "-1m",
			errMsg: "tick interval must be positive",
		},
		{
			name:   "zero trial",
			key:    "DUETRACK_TRIAL_DAYS",
			value:  "0",
			errMsg: "trial days must be positive",
		},
		{
			name:   "nil subject",
			key:    "DUETRACK_SUBJECT_ID",
			value:  "00000000-0000-0000-0000-000000000000",
			errMsg: "subject id cannot be the zero UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
