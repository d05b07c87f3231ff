package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// chargeLedgerRepository implements domain.ChargeLedgerRepository
type chargeLedgerRepository struct {
	store *Store
}

// NewChargeLedgerRepository creates a new charge ledger repository
func NewChargeLedgerRepository(store *Store) domain.ChargeLedgerRepository {
	return &chargeLedgerRepository{store: store}
}

// Get returns the ledger for a rule; a rule that has never fired yields a
// ledger with a nil LastExecuted.
func (r *chargeLedgerRepository) Get(ctx context.Context, ruleID uuid.UUID) (*domain.ChargeLedger, error) {
	query := `SELECT last_executed FROM charge_ledgers WHERE rule_id = ?`

	ledger := &domain.ChargeLedger{RuleID: ruleID}

	var lastExecuted sql.NullString
	err := r.store.db.QueryRowContext(ctx, query, ruleID.String()).Scan(&lastExecuted)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get charge ledger: %w", err)
	}

	if lastExecuted.Valid {
		period, err := domain.ParsePeriodKey(lastExecuted.String)
		if err != nil {
			return nil, err
		}
		ledger.LastExecuted = &period
	}

	return ledger, nil
}

// Advance moves LastExecuted to period iff the stored value still equals
// expected. The guarded write is the compare-and-swap that keeps concurrent
// ticks from double-posting.
func (r *chargeLedgerRepository) Advance(ctx context.Context, ruleID uuid.UUID, period domain.PeriodKey, expected *domain.PeriodKey) error {
	var (
		res sql.Result
		err error
	)

	if expected == nil {
		// First post for this rule: insert, or update a row that is
		// still unset. A concurrent winner leaves zero rows affected.
		query := `
			INSERT INTO charge_ledgers (rule_id, last_executed) VALUES (?, ?)
			ON CONFLICT (rule_id) DO UPDATE SET last_executed = excluded.last_executed
			WHERE charge_ledgers.last_executed IS NULL
		`
		res, err = r.store.db.ExecContext(ctx, query, ruleID.String(), period.String())
	} else {
		query := `
			UPDATE charge_ledgers SET last_executed = ?
			WHERE rule_id = ? AND last_executed = ?
		`
		res, err = r.store.db.ExecContext(ctx, query, period.String(), ruleID.String(), expected.String())
	}

	if err != nil {
		return fmt.Errorf("failed to advance charge ledger: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrLedgerConflict
	}

	return nil
}
