package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// entitlementRepository implements domain.EntitlementRepository
type entitlementRepository struct {
	store *Store
}

// NewEntitlementRepository creates a new entitlement repository
func NewEntitlementRepository(store *Store) domain.EntitlementRepository {
	return &entitlementRepository{store: store}
}

func (r *entitlementRepository) Create(ctx context.Context, window *domain.EntitlementWindow) error {
	query := `
		INSERT INTO entitlement_windows (subject_id, anchor_time, window_days, override, override_expiry)
		VALUES (?, ?, ?, ?, ?)
	`

	var expiry any
	if window.OverrideExpiry != nil {
		expiry = window.OverrideExpiry.UTC().Format(time.RFC3339)
	}

	_, err := r.store.db.ExecContext(ctx, query,
		window.SubjectID.String(),
		window.AnchorTime.UTC().Format(time.RFC3339),
		window.WindowDays,
		string(window.Override),
		expiry,
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
		WHERE subject_id = ?
	`

	var (
		anchorStr, override string
		windowDays          int
		expiry              sql.NullString
	)

	err := r.store.db.QueryRowContext(ctx, query, subjectID.String()).
		Scan(&anchorStr, &windowDays, &override, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement window: %w", err)
	}

	anchor, err := time.Parse(time.RFC3339, anchorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid anchor time %q: %w", anchorStr, err)
	}

	window := &domain.EntitlementWindow{
		SubjectID:  subjectID,
		AnchorTime: anchor,
		WindowDays: windowDays,
		Override:   domain.OverrideState(override),
	}

	if expiry.Valid {
		t, err := time.Parse(time.RFC3339, expiry.String)
		if err != nil {
			return nil, fmt.Errorf("invalid override expiry %q: %w", expiry.String, err)
		}
		window.OverrideExpiry = &t
	}

	return window, nil
}
