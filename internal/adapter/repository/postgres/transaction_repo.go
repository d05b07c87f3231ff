package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a new transaction record
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, category_id, amount, date, description, system_generated)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.CategoryID,
		tx.Amount.String(),
		tx.Date,
		tx.Description,
		tx.SystemGenerated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListRange retrieves transactions with dates in [from, to]; zero time
// values leave the corresponding side unbounded.
func (r *transactionRepository) ListRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT id, category_id, amount, date, description, system_generated
		FROM transactions
		WHERE ($1 OR date >= $2) AND ($3 OR date < $4)
		ORDER BY date DESC
	`

	// Inclusive upper bound at day precision
	var upper time.Time
	if !to.IsZero() {
		upper = domain.DateOnly(to).AddDate(0, 0, 1)
	}

	rows, err := r.db.QueryContext(ctx, query, from.IsZero(), from, to.IsZero(), upper)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		var (
			tx        domain.Transaction
			amountStr string
		)
		if err := rows.Scan(&tx.ID, &tx.CategoryID, &amountStr, &tx.Date, &tx.Description, &tx.SystemGenerated); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}
		tx.Amount = amount

		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}
