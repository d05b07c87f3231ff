package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
	"github.com/duetrack/duetrack-backend/internal/usecase/schedule"
)

// CompletionRate is the due-versus-done ratio over a window. Rate is zero
// when nothing was scheduled.
type CompletionRate struct {
	Scheduled int
	Completed int
	Rate      float64
}

// Rate walks every calendar date in [from, to] and, for each date, every
// habit rule: a (date, rule) pair where the rule is due contributes exactly
// one unit to the denominator regardless of frequency type, and one unit to
// the numerator when the log marks that date fully complete.
func Rate(rules []*domain.ObligationRule, logs map[uuid.UUID]*domain.CompletionLog, from, to time.Time) CompletionRate {
	start := domain.DateOnly(from)
	end := domain.DateOnly(to)

	var result CompletionRate
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, rule := range rules {
			if !schedule.IsDue(rule, day) {
				continue
			}
			result.Scheduled++
			if logs[rule.ID].IsComplete(day) {
				result.Completed++
			}
		}
	}

	if result.Scheduled > 0 {
		result.Rate = float64(result.Completed) / float64(result.Scheduled)
	}
	return result
}

// Streak counts contiguous fully-complete calendar days walking backward
// from today. Today not being checked in yet does not break an existing
// streak: the walk then starts from yesterday instead.
func Streak(log *domain.CompletionLog, today time.Time) int {
	day := domain.DateOnly(today)
	if !log.IsComplete(day) {
		day = day.AddDate(0, 0, -1)
	}

	count := 0
	for log.IsComplete(day) {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

// WeekOf returns the ISO week (Monday through Sunday) containing t.
func WeekOf(t time.Time) (from, to time.Time) {
	day := domain.DateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7
	from = day.AddDate(0, 0, -offset)
	return from, from.AddDate(0, 0, 6)
}

// MonthOf returns the first and last day of the month containing t.
func MonthOf(t time.Time) (from, to time.Time) {
	day := domain.DateOnly(t)
	from = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1)
}

// YearOf returns the first and last day of the year containing t.
func YearOf(t time.Time) (from, to time.Time) {
	day := domain.DateOnly(t)
	from = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}
