package domain

import (
	"fmt"
	"sort"
	"time"
)

// PeriodKey identifies one calendar month. It is the idempotency unit for
// recurring-charge posting and the grouping unit for all reports.
type PeriodKey struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period key for the month containing t.
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: t.Month()}
}

// String renders the key as "YYYY-MM", the canonical storage encoding.
func (p PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ParsePeriodKey parses the canonical "YYYY-MM" encoding.
func ParsePeriodKey(s string) (PeriodKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return PeriodKey{}, fmt.Errorf("invalid period key %q: %w", s, err)
	}
	return PeriodKey{Year: t.Year(), Month: t.Month()}, nil
}

// Before reports whether p is strictly earlier than other.
func (p PeriodKey) Before(other PeriodKey) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Next returns the following calendar month.
func (p PeriodKey) Next() PeriodKey {
	if p.Month == time.December {
		return PeriodKey{Year: p.Year + 1, Month: time.January}
	}
	return PeriodKey{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the preceding calendar month.
func (p PeriodKey) Prev() PeriodKey {
	if p.Month == time.January {
		return PeriodKey{Year: p.Year - 1, Month: time.December}
	}
	return PeriodKey{Year: p.Year, Month: p.Month - 1}
}

// MonthsSince returns the number of whole calendar months from earlier to p.
// Negative when p is earlier than the argument.
func (p PeriodKey) MonthsSince(earlier PeriodKey) int {
	return (p.Year-earlier.Year)*12 + int(p.Month) - int(earlier.Month)
}

// Days returns the number of days in the month.
func (p PeriodKey) Days() int {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

// SortPeriodsDesc orders period keys most recent first (descending year, then
// descending month). Report ordering is a user-facing contract, not an
// implementation detail.
func SortPeriodsDesc(keys []PeriodKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[j].Before(keys[i]) })
}

// DayKey renders a calendar date as "YYYY-MM-DD", the canonical key for
// per-day completion markers.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateOnly truncates t to midnight UTC so day-precision comparisons ignore
// the time of day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
