package habit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duetrack/duetrack-backend/internal/domain"
	"github.com/duetrack/duetrack-backend/internal/usecase/entitlement"
	"github.com/duetrack/duetrack-backend/internal/usecase/schedule"
)

// ErrReadOnly is returned when the entitlement gate reports the subject's
// window is no longer active: every mutating operation consults the gate
// before proceeding.
var ErrReadOnly = errors.New("entitlement window expired: account is read-only")

// ErrNotScheduled is returned when a check-in targets a date the rule is not
// due on.
var ErrNotScheduled = errors.New("rule is not scheduled on that date")

// Gate reports whether the subject may mutate state.
type Gate interface {
	Check(ctx context.Context) (entitlement.Status, error)
}

// Service is the user-editable surface over habit completion logs: creating
// rules and toggling per-day completion. The evaluator itself never mutates
// the log.
type Service struct {
	HabitRepo domain.HabitRepository
	LogRepo   domain.CompletionLogRepository
	Gate      Gate
}

// NewService creates a new habit Service instance
func NewService(habitRepo domain.HabitRepository, logRepo domain.CompletionLogRepository, gate Gate) *Service {
	return &Service{
		HabitRepo: habitRepo,
		LogRepo:   logRepo,
		Gate:      gate,
	}
}

// CreateRule validates and persists a new habit rule. Malformed frequency
// configurations are rejected here, never at evaluation time.
func (s *Service) CreateRule(ctx context.Context, rule *domain.ObligationRule) error {
	if err := s.checkGate(ctx); err != nil {
		return err
	}

	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}

	if err := rule.Validate(); err != nil {
		return err
	}

	if err := s.HabitRepo.Create(ctx, rule); err != nil {
		return fmt.Errorf("failed to create habit rule: %w", err)
	}

	return nil
}

// DeleteRule removes a rule and discards its completion history. Deletion is
// always an explicit user action, never implicit.
func (s *Service) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	if err := s.checkGate(ctx); err != nil {
		return err
	}

	if err := s.HabitRepo.Delete(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to delete habit rule: %w", err)
	}

	return nil
}

// Toggle flips the completion marker for one calendar date and returns the
// new state. The date must be one the rule is due on; for the TIMES_PER
// variants every bounded date qualifies.
func (s *Service) Toggle(ctx context.Context, ruleID uuid.UUID, day time.Time) (bool, error) {
	if err := s.checkGate(ctx); err != nil {
		return false, err
	}

	rule, err := s.HabitRepo.GetByID(ctx, ruleID)
	if err != nil {
		return false, fmt.Errorf("failed to load habit rule: %w", err)
	}

	if !schedule.IsDue(rule, day) {
		return false, ErrNotScheduled
	}

	log, err := s.LogRepo.Get(ctx, ruleID)
	if err != nil {
		return false, fmt.Errorf("failed to load completion log: %w", err)
	}

	next := domain.FullCompletion
	if log.IsComplete(day) {
		next = 0
	}

	if err := s.LogRepo.SetDay(ctx, ruleID, day, next); err != nil {
		return false, fmt.Errorf("failed to record completion: %w", err)
	}

	return next == domain.FullCompletion, nil
}

func (s *Service) checkGate(ctx context.Context) error {
	status, err := s.Gate.Check(ctx)
	if err != nil {
		return err
	}
	if !status.Active {
		return ErrReadOnly
	}
	return nil
}
