package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(store *Store) domain.TransactionRepository {
	return &transactionRepository{store: store}
}

// Create appends a new transaction record
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, category_id, amount, date, description, system_generated)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.store.db.ExecContext(ctx, query,
		tx.ID.String(),
		tx.CategoryID.String(),
		tx.Amount.String(),
		tx.Date.UTC().Format(time.RFC3339),
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
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date DESC
	`

	fromStr, toStr := "", ""
	if !from.IsZero() {
		fromStr = from.UTC().Format(time.RFC3339)
	}
	if !to.IsZero() {
		// Inclusive upper bound at day precision
		toStr = domain.DateOnly(to).AddDate(0, 0, 1).Format(time.RFC3339)
	}

	rows, err := r.store.db.QueryContext(ctx, query, fromStr, fromStr, toStr, toStr)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		var (
			idStr, categoryStr, amountStr, dateStr, description string
			systemGenerated                                     bool
		)
		if err := rows.Scan(&idStr, &categoryStr, &amountStr, &dateStr, &description, &systemGenerated); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction id %q: %w", idStr, err)
		}
		categoryID, err := uuid.Parse(categoryStr)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q: %w", categoryStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", dateStr, err)
		}

		txs = append(txs, &domain.Transaction{
			ID:              id,
			CategoryID:      categoryID,
			Amount:          amount,
			Date:            date,
			Description:     description,
			SystemGenerated: systemGenerated,
		})
	}

	return txs, rows.Err()
}
