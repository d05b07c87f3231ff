package domain

import (
	"errors"
	"time"
)

// FrequencyType discriminates the frequency union
type FrequencyType string

const (
	FrequencyDaily          FrequencyType = "DAILY"
	FrequencyWeeklyOnDays   FrequencyType = "WEEKLY_ON_DAYS"
	FrequencyTimesPerWeek   FrequencyType = "TIMES_PER_WEEK"
	FrequencyMonthlyOnDates FrequencyType = "MONTHLY_ON_DATES"
	FrequencyTimesPerMonth  FrequencyType = "TIMES_PER_MONTH"
)

// Frequency is a tagged union keyed by Type: only the field demanded by the
// type may be set. Weekdays holds weekday indices for WEEKLY_ON_DAYS,
// MonthDays holds day-of-month values (1-31) for MONTHLY_ON_DATES, and Count
// holds the target occurrence count for the two TIMES_PER variants. DAILY
// carries no value.
type Frequency struct {
	Type      FrequencyType
	Weekdays  []time.Weekday
	MonthDays []int
	Count     int
}

// Validate ensures the frequency value matches its type
// Returns an error if validation fails
// Malformed frequencies are rejected here, at rule-creation time; the
// evaluator assumes validated input and treats anything else as never due.
func (f Frequency) Validate() error {
	switch f.Type {
	case FrequencyDaily:
		// No value required

	case FrequencyWeeklyOnDays:
		if len(f.Weekdays) == 0 {
			return errors.New("WEEKLY_ON_DAYS frequency must have at least one weekday")
		}
		for _, d := range f.Weekdays {
			if d < time.Sunday || d > time.Saturday {
				return errors.New("weekday index must be between 0 (Sunday) and 6 (Saturday)")
			}
		}

	case FrequencyMonthlyOnDates:
		if len(f.MonthDays) == 0 {
			return errors.New("MONTHLY_ON_DATES frequency must have at least one day of month")
		}
		for _, d := range f.MonthDays {
			if d < 1 || d > 31 {
				return errors.New("day of month must be between 1 and 31")
			}
		}

	case FrequencyTimesPerWeek, FrequencyTimesPerMonth:
		if f.Count <= 0 {
			return errors.New("TIMES_PER frequency must have a positive count")
		}

	default:
		return errors.New("frequency type must be DAILY, WEEKLY_ON_DAYS, TIMES_PER_WEEK, MONTHLY_ON_DATES, or TIMES_PER_MONTH")
	}

	return nil
}

// HasWeekday reports whether d is one of the scheduled weekdays.
func (f Frequency) HasWeekday(d time.Weekday) bool {
	for _, w := range f.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// HasMonthDay reports whether day is one of the scheduled days of month.
// No clamping: day 31 on a 30-day month never matches. Callers needing the
// anchor-day clamping used for charges must clamp before querying.
func (f Frequency) HasMonthDay(day int) bool {
	for _, d := range f.MonthDays {
		if d == day {
			return true
		}
	}
	return false
}
