package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// completionLogRepository implements domain.CompletionLogRepository
type completionLogRepository struct {
	store *Store
}

// NewCompletionLogRepository creates a new completion log repository
func NewCompletionLogRepository(store *Store) domain.CompletionLogRepository {
	return &completionLogRepository{store: store}
}

// Get returns the completion log for a rule; a rule with no check-ins
// yields an empty log.
func (r *completionLogRepository) Get(ctx context.Context, ruleID uuid.UUID) (*domain.CompletionLog, error) {
	query := `SELECT day, percent FROM habit_completions WHERE rule_id = ?`

	rows, err := r.store.db.QueryContext(ctx, query, ruleID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get completion log: %w", err)
	}
	defer rows.Close()

	log := domain.NewCompletionLog(ruleID)
	for rows.Next() {
		var day string
		var percent int
		if err := rows.Scan(&day, &percent); err != nil {
			return nil, fmt.Errorf("failed to scan completion entry: %w", err)
		}
		log.Days[day] = percent
	}

	return log, rows.Err()
}

// SetDay records a completion percentage for one calendar date. The
// (rule_id, day) primary key makes repeated check-ins idempotent; a zero
// percentage removes the entry.
func (r *completionLogRepository) SetDay(ctx context.Context, ruleID uuid.UUID, day time.Time, percent int) error {
	if percent == 0 {
		query := `DELETE FROM habit_completions WHERE rule_id = ? AND day = ?`
		if _, err := r.store.db.ExecContext(ctx, query, ruleID.String(), domain.DayKey(day)); err != nil {
			return fmt.Errorf("failed to clear completion: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO habit_completions (rule_id, day, percent) VALUES (?, ?, ?)
		ON CONFLICT (rule_id, day) DO UPDATE SET percent = excluded.percent
	`
	if _, err := r.store.db.ExecContext(ctx, query, ruleID.String(), domain.DayKey(day), percent); err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	return nil
}
