package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// entitlementRepository implements domain.EntitlementRepository
type entitlementRepository struct {
	db *DB
}

// NewEntitlementRepository creates a new entitlement repository
func NewEntitlementRepository(db *DB) domain.EntitlementRepository {
	return &entitlementRepository{db: db}
}

func (r *entitlementRepository) Create(ctx context.Context, window *domain.EntitlementWindow) error {
	query := `
		INSERT INTO entitlement_windows (subject_id, anchor_time, window_days, override, override_expiry)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		window.SubjectID,
		window.AnchorTime,
		window.WindowDays,
		string(window.Override),
		window.OverrideExpiry,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entitlement window: %w", err)
	}

	return nil
}

func (r *entitlementRepository) Get(ctx context.Context, subjectID uuid.UUID) (*domain.EntitlementWindow, error) {
	query := `
		SELECT anchor_time, window_days, override, override_expiry
		FROM entitlement_windows
		WHERE subject_id = $1
	`

	window := &domain.EntitlementWindow{SubjectID: subjectID}

	var override string
	var expiry sql.NullTime

	err := r.db.QueryRowContext(ctx, query, subjectID).
		Scan(&window.AnchorTime, &window.WindowDays, &override, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement window: %w", err)
	}

	window.Override = domain.OverrideState(override)
	if expiry.Valid {
		t := expiry.Time
		window.OverrideExpiry = &t
	}

	return window, nil
}
