package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// chargeRuleRepository implements domain.ChargeRuleRepository
type chargeRuleRepository struct {
	store *Store
}

// NewChargeRuleRepository creates a new charge rule repository
func NewChargeRuleRepository(store *Store) domain.ChargeRuleRepository {
	return &chargeRuleRepository{store: store}
}

func (r *chargeRuleRepository) Create(ctx context.Context, rule *domain.ChargeRule) error {
	query := `
		INSERT INTO charge_rules (id, name, amount, category_id, anchor_day, duration_limit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var limit any
	if rule.DurationLimit != nil {
		limit = *rule.DurationLimit
	}

	_, err := r.store.db.ExecContext(ctx, query,
		rule.ID.String(),
		rule.Name,
		rule.Amount.String(),
		rule.CategoryID.String(),
		rule.AnchorDay,
		limit,
		rule.CreatedAt.UTC().Format(dayFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert charge rule: %w", err)
	}

	return nil
}

func (r *chargeRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChargeRule, error) {
	query := `
		SELECT id, name, amount, category_id, anchor_day, duration_limit, created_at
		FROM charge_rules
		WHERE id = ?
	`

	rule, err := scanChargeRule(r.store.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get charge rule: %w", err)
	}

	return rule, nil
}

func (r *chargeRuleRepository) List(ctx context.Context) ([]*domain.ChargeRule, error) {
	query := `
		SELECT id, name, amount, category_id, anchor_day, duration_limit, created_at
		FROM charge_rules
		ORDER BY name
	`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list charge rules: %w", err)
	}
	defer rows.Close()

	rules := make([]*domain.ChargeRule, 0)
	for rows.Next() {
		rule, err := scanChargeRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// Delete removes the rule together with its execution ledger.
func (r *chargeRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM charge_ledgers WHERE rule_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete charge ledger: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM charge_rules WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete charge rule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanChargeRule(row rowScanner) (*domain.ChargeRule, error) {
	var (
		idStr, name, amountStr, categoryStr, createdStr string
		anchorDay                                       int
		limit                                           sql.NullInt64
	)

	if err := row.Scan(&idStr, &name, &amountStr, &categoryStr, &anchorDay, &limit, &createdStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rule id %q: %w", idStr, err)
	}
	categoryID, err := uuid.Parse(categoryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid category id %q: %w", categoryStr, err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	createdAt, err := parseDay(createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}

	rule := &domain.ChargeRule{
		ID:         id,
		Name:       name,
		Amount:     amount,
		CategoryID: categoryID,
		AnchorDay:  anchorDay,
		CreatedAt:  createdAt,
	}

	if limit.Valid {
		v := int(limit.Int64)
		rule.DurationLimit = &v
	}

	return rule, nil
}
