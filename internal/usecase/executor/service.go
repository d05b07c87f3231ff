package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// Service posts recurring charges exactly once per rule per calendar month.
// It is safe to invoke on any cadence: the charge ledger makes Tick
// idempotent, and the compare-and-swap on the ledger rejects a concurrent
// writer before it can emit.
type Service struct {
	LedgerRepo      domain.ChargeLedgerRepository
	TransactionRepo domain.TransactionRepository
	Clock           domain.Clock
}

// NewService creates a new executor Service instance
func NewService(
	ledgerRepo domain.ChargeLedgerRepository,
	transactionRepo domain.TransactionRepository,
	clock domain.Clock,
) *Service {
	return &Service{
		LedgerRepo:      ledgerRepo,
		TransactionRepo: transactionRepo,
		Clock:           clock,
	}
}

// Tick decides whether the rule owes a charge for the current period and
// posts at most one.
//
// Logic:
//  1. A rule past its duration limit is permanently inert
//  2. A period already covered by the ledger is a no-op (idempotency)
//  3. Before the clamped anchor day it is not yet time to post
//  4. Otherwise claim the period via the ledger compare-and-swap, then emit
//     the system-generated transaction
//
// The ledger is advanced before the emit: a crash between the two causes at
// most one silent skip for the period, never a double post. A lost
// compare-and-swap means a concurrent tick already handled the period, so
// Tick returns no charge and no error.
func (s *Service) Tick(ctx context.Context, rule *domain.ChargeRule) (*domain.PostedCharge, error) {
	now := s.Clock.Now()
	period := domain.PeriodOf(now)

	// 1. Lapsed rules stay visible but never fire again
	if rule.Lapsed(period) {
		return nil, nil
	}

	// 2. Consult the ledger before acting
	ledger, err := s.LedgerRepo.Get(ctx, rule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read charge ledger: %w", err)
	}
	if ledger.Posted(period) {
		return nil, nil
	}

	// 3. Not yet time to post this month
	if now.Day() < rule.EffectiveAnchorDay(period) {
		return nil, nil
	}

	// 4. Claim the period. Losing the compare-and-swap means another tick
	// already handled it; that is not an error to retry.
	if err := s.LedgerRepo.Advance(ctx, rule.ID, period, ledger.LastExecuted); err != nil {
		if errors.Is(err, domain.ErrLedgerConflict) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to advance charge ledger: %w", err)
	}

	// 5. Emit the charge into the external transaction ledger
	tx := &domain.Transaction{
		ID:              uuid.New(),
		CategoryID:      rule.CategoryID,
		Amount:          rule.Amount,
		Date:            now,
		Description:     fmt.Sprintf("%s (recurring charge, %s)", rule.Name, period),
		SystemGenerated: true,
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		// The period stays claimed: one silent skip, never a double post.
		// Favoring under- over over-charging is the chosen failure bias.
		return nil, fmt.Errorf("failed to emit charge: %w", err)
	}

	return &domain.PostedCharge{
		TransactionID: tx.ID,
		RuleID:        rule.ID,
		Period:        period,
		Amount:        tx.Amount,
		CategoryID:    tx.CategoryID,
		Description:   tx.Description,
	}, nil
}
