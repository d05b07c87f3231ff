package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// habitRuleRepository implements domain.HabitRepository
type habitRuleRepository struct {
	store *Store
}

// NewHabitRepository creates a new habit rule repository
func NewHabitRepository(store *Store) domain.HabitRepository {
	return &habitRuleRepository{store: store}
}

func (r *habitRuleRepository) Create(ctx context.Context, rule *domain.ObligationRule) error {
	query := `
		INSERT INTO habit_rules (id, name, frequency_type, weekdays, month_days, times_count, valid_from, valid_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.store.db.ExecContext(ctx, query,
		rule.ID.String(),
		rule.Name,
		string(rule.Frequency.Type),
		weekdaysToCSV(rule.Frequency.Weekdays),
		intsToCSV(rule.Frequency.MonthDays),
		rule.Frequency.Count,
		dayString(rule.ValidFrom),
		dayString(rule.ValidUntil),
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
		WHERE id = ?
	`

	rule, err := scanHabitRule(r.store.db.QueryRowContext(ctx, query, id.String()))
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

	rows, err := r.store.db.QueryContext(ctx, query)
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
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completions WHERE rule_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete completion log: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_rules WHERE id = ?`, id.String()); err != nil {
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
		idStr, name, freqType string
		weekdaysCSV, daysCSV  string
		count                 int
		validFrom, validUntil sql.NullString
	)

	if err := row.Scan(&idStr, &name, &freqType, &weekdaysCSV, &daysCSV, &count, &validFrom, &validUntil); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rule id %q: %w", idStr, err)
	}

	weekdays, err := csvToWeekdays(weekdaysCSV)
	if err != nil {
		return nil, err
	}
	monthDays, err := csvToInts(daysCSV)
	if err != nil {
		return nil, err
	}

	rule := &domain.ObligationRule{
		ID:   id,
		Name: name,
		Frequency: domain.Frequency{
			Type:      domain.FrequencyType(freqType),
			Weekdays:  weekdays,
			MonthDays: monthDays,
			Count:     count,
		},
	}

	if validFrom.Valid {
		t, err := parseDay(validFrom.String)
		if err != nil {
			return nil, fmt.Errorf("invalid valid_from: %w", err)
		}
		rule.ValidFrom = &t
	}
	if validUntil.Valid {
		t, err := parseDay(validUntil.String)
		if err != nil {
			return nil, fmt.Errorf("invalid valid_until: %w", err)
		}
		rule.ValidUntil = &t
	}

	return rule, nil
}
