package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// habitRuleRepository implements domain.HabitRepository
type habitRuleRepository struct {
	db *DB
}

// NewHabitRepository creates a new habit rule repository
func NewHabitRepository(db *DB) domain.HabitRepository {
	return &habitRuleRepository{db: db}
}

func (r *habitRuleRepository) Create(ctx context.Context, rule *domain.ObligationRule) error {
	query := `
		INSERT INTO habit_rules (id, name, frequency_type, weekdays, month_days, times_count, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		string(rule.Frequency.Type),
		pq.Array(weekdaysToInt64s(rule.Frequency.Weekdays)),
		pq.Array(intsToInt64s(rule.Frequency.MonthDays)),
		rule.Frequency.Count,
		rule.ValidFrom,
		rule.ValidUntil,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit rule: %w", err)
	}

	return nil
}

func (r *habitRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ObligationRule, error) {
	query := `
		SELECT id, name, frequency_type, weekdays, month_days, times_count, valid_from, valid_until
		FROM habit_rules
		WHERE id = $1
	`

	rule, err := scanHabitRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get habit rule: %w", err)
	}

	return rule, nil
}

func (r *habitRuleRepository) List(ctx context.Context) ([]*domain.ObligationRule, error) {
	query := `
		SELECT id, name, frequency_type, weekdays, month_days, times_count, valid_from, valid_until
		FROM habit_rules
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit rules: %w", err)
	}
	defer rows.Close()

	rules := make([]*domain.ObligationRule, 0)
	for rows.Next() {
		rule, err := scanHabitRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// Delete removes the rule together with its completion history.
func (r *habitRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completions WHERE rule_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete completion log: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete habit rule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabitRule(row rowScanner) (*domain.ObligationRule, error) {
	var (
		id                    uuid.UUID
		name, freqType        string
		weekdays, monthDays   pq.Int64Array
		count                 int
		validFrom, validUntil sql.NullTime
	)

	if err := row.Scan(&id, &name, &freqType, &weekdays, &monthDays, &count, &validFrom, &validUntil); err != nil {
		return nil, err
	}

	rule := &domain.ObligationRule{
		ID:   id,
		Name: name,
		Frequency: domain.Frequency{
			Type:      domain.FrequencyType(freqType),
			Weekdays:  int64sToWeekdays(weekdays),
			MonthDays: int64sToInts(monthDays),
			Count:     count,
		},
	}

	if validFrom.Valid {
		t := validFrom.Time
		rule.ValidFrom = &t
	}
	if validUntil.Valid {
		t := validUntil.Time
		rule.ValidUntil = &t
	}

	return rule, nil
}
