package schedule

import (
	"time"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// IsDue reports whether the rule is due on the given calendar date.
// Pure and deterministic: no I/O, no ambient clock.
//
// Logic:
//  1. Apply the validity bounds (inclusive, day precision). A date before
//     ValidFrom is "not yet started" rather than an error, which also covers
//     clock skew.
//  2. Apply the frequency predicate for the rule's type.
//
// The TIMES_PER_WEEK and TIMES_PER_MONTH variants are due on every bounded
// date: the configured count is a consumer policy (the habit surface lets the
// user check in on any day up to the count), not rationed here.
//
// MONTHLY_ON_DATES does not clamp: day 31 never fires in a 30-day month.
// This differs from the anchor-day clamping used for charges; callers that
// need clamping must clamp before querying.
func IsDue(rule *domain.ObligationRule, date time.Time) bool {
	day := domain.DateOnly(date)

	if rule.ValidFrom != nil && day.Before(domain.DateOnly(*rule.ValidFrom)) {
		return false
	}
	if rule.ValidUntil != nil && day.After(domain.DateOnly(*rule.ValidUntil)) {
		return false
	}

	switch rule.Frequency.Type {
	case domain.FrequencyDaily:
		return true
	case domain.FrequencyWeeklyOnDays:
		return rule.Frequency.HasWeekday(day.Weekday())
	case domain.FrequencyMonthlyOnDates:
		return rule.Frequency.HasMonthDay(day.Day())
	case domain.FrequencyTimesPerWeek, domain.FrequencyTimesPerMonth:
		return true
	default:
		// Unvalidated frequency: never due
		return false
	}
}
