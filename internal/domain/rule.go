package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationRule represents one recurring commitment with a due-date
// predicate: the habit variant of an obligation. The optional bounds are
// inclusive and day-precision; absent means unbounded in that direction.
type ObligationRule struct {
	ID         uuid.UUID
	Name       string
	Frequency  Frequency
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// Validate ensures the rule adheres to domain rules
// Returns an error if validation fails
func (r *ObligationRule) Validate() error {
	if r.Name == "" {
		return errors.New("rule name cannot be empty")
	}

	if err := r.Frequency.Validate(); err != nil {
		return err
	}

	// Bounds must be ordered when both are present
	if r.ValidFrom != nil && r.ValidUntil != nil {
		if DateOnly(*r.ValidUntil).Before(DateOnly(*r.ValidFrom)) {
			return errors.New("validFrom must not be after validUntil")
		}
	}

	return nil
}

// ChargeRule represents the recurring-expense variant of an obligation: a
// charge that posts at most once per calendar month on its anchor day.
// DurationLimit, when set, is the maximum number of calendar months the rule
// stays active, counted from the creation month; a lapsed rule remains
// visible but permanently inert.
type ChargeRule struct {
	ID            uuid.UUID
	Name          string
	Amount        decimal.Decimal
	CategoryID    uuid.UUID
	AnchorDay     int // target day-of-month, clamped to short months
	DurationLimit *int
	CreatedAt     time.Time
}

// Validate ensures the charge rule adheres to domain rules
// Returns an error if validation fails
func (r *ChargeRule) Validate() error {
	if r.Name == "" {
		return errors.New("charge rule name cannot be empty")
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("charge amount must be positive")
	}

	if r.AnchorDay < 1 || r.AnchorDay > 31 {
		return errors.New("anchor day must be between 1 and 31")
	}

	if r.DurationLimit != nil && *r.DurationLimit <= 0 {
		return errors.New("duration limit must be positive when set")
	}

	return nil
}

// EffectiveAnchorDay returns the posting day for the given month: the anchor
// day clamped to the last day of short months, so an anchor of 31 posts on
// the 30th of a 30-day month rather than being skipped.
func (r *ChargeRule) EffectiveAnchorDay(period PeriodKey) int {
	days := period.Days()
	if r.AnchorDay > days {
		return days
	}
	return r.AnchorDay
}

// Lapsed reports whether the rule has outlived its duration limit as of the
// given period. The creation month counts as month zero.
func (r *ChargeRule) Lapsed(period PeriodKey) bool {
	if r.DurationLimit == nil {
		return false
	}
	return period.MonthsSince(PeriodOf(r.CreatedAt)) >= *r.DurationLimit
}
