package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrLedgerConflict is returned by ChargeLedgerRepository.Advance when a
// concurrent writer already claimed the period: the compare-and-swap saw a
// prior value different from the expected one. A losing tick must treat this
// as "already handled," not as an error to retry within the same invocation.
var ErrLedgerConflict = errors.New("charge ledger conflict")

// HabitRepository defines the interface for habit rule persistence operations
type HabitRepository interface {
	// Create creates a new habit rule
	Create(ctx context.Context, rule *ObligationRule) error

	// GetByID retrieves a habit rule by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*ObligationRule, error)

	// List retrieves all habit rules
	List(ctx context.Context) ([]*ObligationRule, error)

	// Delete removes a habit rule and its completion log.
	// Deletion is an explicit user action that also discards execution history.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChargeRuleRepository defines the interface for charge rule persistence operations
type ChargeRuleRepository interface {
	// Create creates a new charge rule
	Create(ctx context.Context, rule *ChargeRule) error

	// GetByID retrieves a charge rule by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*ChargeRule, error)

	// List retrieves all charge rules
	List(ctx context.Context) ([]*ChargeRule, error)

	// Delete removes a charge rule and its ledger
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChargeLedgerRepository defines the interface for charge ledger persistence.
// The Advance operation is the single mutation path for ledgers and carries
// the compare-and-swap that rejects concurrent writers.
type ChargeLedgerRepository interface {
	// Get retrieves the ledger for a rule. A rule that has never fired
	// yields a ledger with a nil LastExecuted, not ErrNotFound.
	Get(ctx context.Context, ruleID uuid.UUID) (*ChargeLedger, error)

	// Advance moves LastExecuted to period if and only if the stored value
	// still equals expected (nil meaning "never fired"). Returns
	// ErrLedgerConflict when another writer got there first.
	Advance(ctx context.Context, ruleID uuid.UUID, period PeriodKey, expected *PeriodKey) error
}

// CompletionLogRepository defines the interface for habit completion persistence
type CompletionLogRepository interface {
	// Get retrieves the completion log for a rule. A rule with no
	// check-ins yields an empty log, not ErrNotFound.
	Get(ctx context.Context, ruleID uuid.UUID) (*CompletionLog, error)

	// SetDay records a completion percentage for one calendar date,
	// deleting the entry when percent is zero.
	SetDay(ctx context.Context, ruleID uuid.UUID, day time.Time, percent int) error
}

// TransactionRepository defines the interface for the external financial
// ledger of transactions. Creation is append-only.
type TransactionRepository interface {
	// Create appends a new transaction record
	Create(ctx context.Context, tx *Transaction) error

	// ListRange retrieves transactions with dates in [from, to].
	// Zero time values leave the corresponding side unbounded.
	ListRange(ctx context.Context, from, to time.Time) ([]*Transaction, error)
}

// IncomeRepository defines the interface for per-period income figures.
// The series is sparse: an absent period defaults to zero income in balance
// math, never to "unknown."
type IncomeRepository interface {
	// Set records the income figure for a period, overwriting any prior value
	Set(ctx context.Context, period PeriodKey, amount decimal.Decimal) error

	// Get retrieves the income figure for a period; ok is false when absent
	Get(ctx context.Context, period PeriodKey) (amount decimal.Decimal, ok bool, err error)

	// List retrieves all recorded income figures keyed by period
	List(ctx context.Context) (map[PeriodKey]decimal.Decimal, error)
}

// EntitlementRepository defines the interface for entitlement window persistence
type EntitlementRepository interface {
	// Create creates a subject's entitlement window
	Create(ctx context.Context, window *EntitlementWindow) error

	// Get retrieves a subject's entitlement window
	Get(ctx context.Context, subjectID uuid.UUID) (*EntitlementWindow, error)
}
