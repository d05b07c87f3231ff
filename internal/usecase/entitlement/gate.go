package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// Status is the result of evaluating an entitlement window. DaysRemaining is
// nil when an override applies: overrides are compared directly against now
// and carry no countdown.
type Status struct {
	Active        bool
	DaysRemaining *int
}

// Evaluate is a pure predicate over a subject's entitlement window.
//
// Logic:
//   - UNLIMITED override: always active, no countdown
//   - EXPIRES_AT override: active while now is before the expiry, no countdown
//   - Trial path: elapsed whole days since the anchor count against the
//     window length; remaining days are floored at zero for reporting
//
// Clock skew (now before the anchor) reads as a trial that has not started
// consuming days yet, never as an error.
//
// The gate only evaluates. Translating Active=false into read-only
// enforcement is the calling action layer's job.
func Evaluate(window *domain.EntitlementWindow, now time.Time) Status {
	switch window.Override {
	case domain.OverrideUnlimited:
		return Status{Active: true}
	case domain.OverrideExpiresAt:
		return Status{Active: now.Before(*window.OverrideExpiry)}
	}

	elapsedDays := int(now.Sub(window.AnchorTime).Hours() / 24)
	if elapsedDays < 0 {
		elapsedDays = 0
	}

	remaining := window.WindowDays - elapsedDays
	active := remaining > 0
	if remaining < 0 {
		remaining = 0
	}

	return Status{Active: active, DaysRemaining: &remaining}
}

// GateService evaluates the configured subject's entitlement window against
// the injected clock.
type GateService struct {
	Repo      domain.EntitlementRepository
	Clock     domain.Clock
	SubjectID uuid.UUID
}

// NewGateService creates a new GateService instance
func NewGateService(repo domain.EntitlementRepository, clock domain.Clock, subjectID uuid.UUID) *GateService {
	return &GateService{
		Repo:      repo,
		Clock:     clock,
		SubjectID: subjectID,
	}
}

// Check loads the subject's window and evaluates it as of now.
func (s *GateService) Check(ctx context.Context) (Status, error) {
	window, err := s.Repo.Get(ctx, s.SubjectID)
	if err != nil {
		return Status{}, fmt.Errorf("failed to load entitlement window: %w", err)
	}

	return Evaluate(window, s.Clock.Now()), nil
}
