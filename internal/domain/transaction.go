package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents one record in the external financial ledger: a
// categorized spend on a calendar date. SystemGenerated marks charges posted
// by the obligation executor, as opposed to entries logged by the user.
type Transaction struct {
	ID              uuid.UUID
	CategoryID      uuid.UUID
	Amount          decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Date            time.Time
	Description     string
	SystemGenerated bool
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive")
	}

	if t.Date.IsZero() {
		return errors.New("transaction date cannot be zero")
	}

	return nil
}

// PostedCharge is the executor's output for a successful post: the emitted
// transaction together with the period the ledger was advanced to.
type PostedCharge struct {
	TransactionID uuid.UUID
	RuleID        uuid.UUID
	Period        PeriodKey
	Amount        decimal.Decimal
	CategoryID    uuid.UUID
	Description   string
}
