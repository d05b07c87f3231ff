package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestObligationRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    ObligationRule
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid daily rule",
			rule: ObligationRule{
				ID:        uuid.New(),
				Name:      "Stretch",
				Frequency: Frequency{Type: FrequencyDaily},
			},
			wantErr: false,
		},
		{
			name: "empty name should fail",
			rule: ObligationRule{
				ID:        uuid.New(),
				Frequency: Frequency{Type: FrequencyDaily},
			},
			wantErr: true,
			errMsg:  "rule name cannot be empty",
		},
		{
			name: "invalid frequency should fail",
			rule: ObligationRule{
				ID:        uuid.New(),
				Name:      "Gym",
				Frequency: Frequency{Type: FrequencyWeeklyOnDays},
			},
			wantErr: true,
			errMsg:  "at least one weekday",
		},
		{
			name: "ordered bounds should pass",
			rule: ObligationRule{
				ID:         uuid.New(),
				Name:       "Read",
				Frequency:  Frequency{Type: FrequencyDaily},
				ValidFrom:  datePtr(2026, time.January, 1),
				ValidUntil: datePtr(2026, time.June, 30),
			},
			wantErr: false,
		},
		{
			name: "inverted bounds should fail",
			rule: ObligationRule{
				ID:         uuid.New(),
				Name:       "Read",
				Frequency:  Frequency{Type: FrequencyDaily},
				ValidFrom:  datePtr(2026, time.June, 30),
				ValidUntil: datePtr(2026, time.January, 1),
			},
			wantErr: true,
			errMsg:  "validFrom must not be after validUntil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChargeRule_Validate(t *testing.T) {
	limit := 12
	badLimit := 0

	tests := []struct {
		name    string
		rule    ChargeRule
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid charge rule",
			rule: ChargeRule{
				ID:         uuid.New(),
				Name:       "Rent",
				Amount:     decimal.NewFromInt(950),
				CategoryID: uuid.New(),
				AnchorDay:  1,
				CreatedAt:  time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			},
			wantErr: false,
		},
		{
			name: "valid charge rule with duration limit",
			rule: ChargeRule{
				ID:            uuid.New(),
				Name:          "Gym membership",
				Amount:        decimal.NewFromInt(35),
				CategoryID:    uuid.New(),
				AnchorDay:     15,
				DurationLimit: &limit,
				CreatedAt:     time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			},
			wantErr: false,
		},
		{
			name: "zero amount should fail",
			rule: ChargeRule{
				ID:         uuid.New(),
				Name:       "Rent",
				Amount:     decimal.Zero,
				CategoryID: uuid.New(),
				AnchorDay:  1,
			},
			wantErr: true,
			errMsg:  "charge amount must be positive",
		},
		{
			name: "anchor day 0 should fail",
			rule: ChargeRule{
				ID:         uuid.New(),
				Name:       "Rent",
				Amount:     decimal.NewFromInt(950),
				CategoryID: uuid.New(),
				AnchorDay:  0,
			},
			wantErr: true,
			errMsg:  "anchor day must be between 1 and 31",
		},
		{
			name: "anchor day 32 should fail",
			rule: ChargeRule{
				ID:         uuid.New(),
				Name:       "Rent",
				Amount:     decimal.NewFromInt(950),
				CategoryID: uuid.New(),
				AnchorDay:  32,
			},
			wantErr: true,
			errMsg:  "anchor day must be between 1 and 31",
		},
		{
			name: "non-positive duration limit should fail",
			rule: ChargeRule{
				ID:            uuid.New(),
				Name:          "Trial sub",
				Amount:        decimal.NewFromInt(10),
				CategoryID:    uuid.New(),
				AnchorDay:     1,
				DurationLimit: &badLimit,
			},
			wantErr: true,
			errMsg:  "duration limit must be positive when set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChargeRule_EffectiveAnchorDay(t *testing.T) {
	rule := ChargeRule{AnchorDay: 31}

	// Clamped to the last day of short months, never skipped
	assert.Equal(t, 30, rule.EffectiveAnchorDay(PeriodKey{Year: 2026, Month: time.April}))
	assert.Equal(t, 28, rule.EffectiveAnchorDay(PeriodKey{Year: 2026, Month: time.February}))
	assert.Equal(t, 29, rule.EffectiveAnchorDay(PeriodKey{Year: 2028, Month: time.February}))
	assert.Equal(t, 31, rule.EffectiveAnchorDay(PeriodKey{Year: 2026, Month: time.March}))
}

func TestChargeRule_Lapsed(t *testing.T) {
	limit := 3
	rule := ChargeRule{
		DurationLimit: &limit,
		CreatedAt:     time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC),
	}

	// Creation month is month zero
	assert.False(t, rule.Lapsed(PeriodKey{Year: 2026, Month: time.January}))
	assert.False(t, rule.Lapsed(PeriodKey{Year: 2026, Month: time.March}))
	assert.True(t, rule.Lapsed(PeriodKey{Year: 2026, Month: time.April}))
	assert.True(t, rule.Lapsed(PeriodKey{Year: 2027, Month: time.January}))

	unlimited := ChargeRule{CreatedAt: rule.CreatedAt}
	assert.False(t, unlimited.Lapsed(PeriodKey{Year: 2030, Month: time.December}))
}
