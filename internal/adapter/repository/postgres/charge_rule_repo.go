package postgres

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
	db *DB
}

// NewChargeRuleRepository creates a new charge rule repository
func NewChargeRuleRepository(db *DB) domain.ChargeRuleRepository {
	return &chargeRuleRepository{db: db}
}

func (r *chargeRuleRepository) Create(ctx context.Context, rule *domain.ChargeRule) error {
	query := `
		INSERT INTO charge_rules (id, name, amount, category_id, anchor_day, duration_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		rule.Amount.String(),
		rule.CategoryID,
		rule.AnchorDay,
		rule.DurationLimit,
		rule.CreatedAt,
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
		WHERE id = $1
	`

	rule, err := scanChargeRule(r.db.QueryRowContext(ctx, query, id))
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

	rows, err := r.db.QueryContext(ctx, query)
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

// Delete removes the rule together with its ledger.
func (r *chargeRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM charge_ledgers WHERE rule_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete charge ledger: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM charge_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete charge rule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanChargeRule(row rowScanner) (*domain.ChargeRule, error) {
	var (
		rule      domain.ChargeRule
		amountStr string
		limit     sql.NullInt64
	)

	if err := row.Scan(&rule.ID, &rule.Name, &amountStr, &rule.CategoryID, &rule.AnchorDay, &limit, &rule.CreatedAt); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	rule.Amount = amount

	if limit.Valid {
		v := int(limit.Int64)
		rule.DurationLimit = &v
	}

	return &rule, nil
}
