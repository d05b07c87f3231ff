package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// incomeRepository implements domain.IncomeRepository
type incomeRepository struct {
	db *DB
}

// NewIncomeRepository creates a new income repository
func NewIncomeRepository(db *DB) domain.IncomeRepository {
	return &incomeRepository{db: db}
}

// Set records the income figure for a period, overwriting any prior value
func (r *incomeRepository) Set(ctx context.Context, period domain.PeriodKey, amount decimal.Decimal) error {
	query := `
		INSERT INTO income_records (period, amount) VALUES ($1, $2)
		ON CONFLICT (period) DO UPDATE SET amount = excluded.amount
	`

	if _, err := r.db.ExecContext(ctx, query, period.String(), amount.String()); err != nil {
		return fmt.Errorf("failed to set income record: %w", err)
	}

	return nil
}

func (r *incomeRepository) Get(ctx context.Context, period domain.PeriodKey) (decimal.Decimal, bool, error) {
	query := `SELECT amount FROM income_records WHERE period = $1`

	var amountStr string
	err := r.db.QueryRowContext(ctx, query, period.String()).Scan(&amountStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get income record: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}

	return amount, true, nil
}

func (r *incomeRepository) List(ctx context.Context) (map[domain.PeriodKey]decimal.Decimal, error) {
	query := `SELECT period, amount FROM income_records`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list income records: %w", err)
	}
	defer rows.Close()

	records := make(map[domain.PeriodKey]decimal.Decimal)
	for rows.Next() {
		var periodStr, amountStr string
		if err := rows.Scan(&periodStr, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan income record: %w", err)
		}

		period, err := domain.ParsePeriodKey(periodStr)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}

		records[period] = amount
	}

	return records, rows.Err()
}
