package domain

import (
	"time"

	"github.com/google/uuid"
)

// FullCompletion is the only non-zero completion value currently modeled:
// a day is either unmarked (0) or fully complete (100).
const FullCompletion = 100

// ChargeLedger is the execution record of a charge rule. Because at most one
// post per month is allowed, a single scalar suffices: the last period that
// was successfully posted. A nil LastExecuted means the rule has never fired.
type ChargeLedger struct {
	RuleID       uuid.UUID
	LastExecuted *PeriodKey
}

// Posted reports whether the ledger already covers the given period.
func (l *ChargeLedger) Posted(period PeriodKey) bool {
	return l.LastExecuted != nil && *l.LastExecuted == period
}

// CompletionLog is the execution record of a habit rule: per-day completion
// percentages keyed by the canonical "YYYY-MM-DD" day key. It grows
// monotonically in the common case but is user-editable (toggling a day)
// through the habit service, never through the evaluator.
type CompletionLog struct {
	RuleID uuid.UUID
	Days   map[string]int
}

// NewCompletionLog returns an empty log for the given rule.
func NewCompletionLog(ruleID uuid.UUID) *CompletionLog {
	return &CompletionLog{RuleID: ruleID, Days: make(map[string]int)}
}

// Completion returns the recorded percentage for the given date, zero when
// the day is unmarked.
func (l *CompletionLog) Completion(day time.Time) int {
	if l == nil || l.Days == nil {
		return 0
	}
	return l.Days[DayKey(day)]
}

// IsComplete reports whether the given date is marked fully complete.
func (l *CompletionLog) IsComplete(day time.Time) bool {
	return l.Completion(day) == FullCompletion
}

// SetDay records a completion percentage for the given date, removing the
// entry entirely when the value drops back to zero.
func (l *CompletionLog) SetDay(day time.Time, percent int) {
	if l.Days == nil {
		l.Days = make(map[string]int)
	}
	key := DayKey(day)
	if percent == 0 {
		delete(l.Days, key)
		return
	}
	l.Days[key] = percent
}
