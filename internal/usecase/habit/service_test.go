package habit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/duetrack/duetrack-backend/internal/domain"
	"github.com/duetrack/duetrack-backend/internal/usecase/entitlement"
)

// MockHabitRepository is a mock implementation of HabitRepository for testing
type MockHabitRepository struct {
	mock.Mock
}

func (m *MockHabitRepository) Create(ctx context.Context, rule *domain.ObligationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockHabitRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ObligationRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObligationRule), args.Error(1)
}

func (m *MockHabitRepository) List(ctx context.Context) ([]*domain.ObligationRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ObligationRule), args.Error(1)
}

func (m *MockHabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCompletionLogRepository is a mock implementation of CompletionLogRepository for testing
type MockCompletionLogRepository struct {
	mock.Mock
}

func (m *MockCompletionLogRepository) Get(ctx context.Context, ruleID uuid.UUID) (*domain.CompletionLog, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionLog), args.Error(1)
}

func (m *MockCompletionLogRepository) SetDay(ctx context.Context, ruleID uuid.UUID, day time.Time, percent int) error {
	args := m.Called(ctx, ruleID, day, percent)
	return args.Error(0)
}

// stubGate returns a fixed entitlement status
type stubGate struct {
	active bool
}

func (g stubGate) Check(ctx context.Context) (entitlement.Status, error) {
	return entitlement.Status{Active: g.active}, nil
}

func dailyRule() *domain.ObligationRule {
	return &domain.ObligationRule{
		ID:        uuid.New(),
		Name:      "Stretch",
		Frequency: domain.Frequency{Type: domain.FrequencyDaily},
	}
}

func TestToggle_MarksAndUnmarks(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)

	rule := dailyRule()
	habitRepo := new(MockHabitRepository)
	logRepo := new(MockCompletionLogRepository)
	habitRepo.On("GetByID", ctx, rule.ID).Return(rule, nil)

	service := NewService(habitRepo, logRepo, stubGate{active: true})

	// Unmarked day toggles to full completion
	logRepo.On("Get", ctx, rule.ID).Return(domain.NewCompletionLog(rule.ID), nil).Once()
	logRepo.On("SetDay", ctx, rule.ID, day, domain.FullCompletion).Return(nil).Once()

	done, err := service.Toggle(ctx, rule.ID, day)
	require.NoError(t, err)
	assert.True(t, done)

	// Marked day toggles back to zero
	marked := domain.NewCompletionLog(rule.ID)
	marked.SetDay(day, domain.FullCompletion)
	logRepo.On("Get", ctx, rule.ID).Return(marked, nil).Once()
	logRepo.On("SetDay", ctx, rule.ID, day, 0).Return(nil).Once()

	done, err = service.Toggle(ctx, rule.ID, day)
	require.NoError(t, err)
	assert.False(t, done)

	logRepo.AssertExpectations(t)
}

func TestToggle_NotScheduledDate(t *testing.T) {
	ctx := context.Background()

	rule := &domain.ObligationRule{
		ID:   uuid.New(),
		Name: "Gym",
		Frequency: domain.Frequency{
			Type:     domain.FrequencyWeeklyOnDays,
			Weekdays: []time.Weekday{time.Monday},
		},
	}

	habitRepo := new(MockHabitRepository)
	logRepo := new(MockCompletionLogRepository)
	habitRepo.On("GetByID", ctx, rule.ID).Return(rule, nil)

	service := NewService(habitRepo, logRepo, stubGate{active: true})

	// 2026-08-27 is a Thursday
	_, err := service.Toggle(ctx, rule.ID, time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, ErrNotScheduled)
	logRepo.AssertNotCalled(t, "SetDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_ExpiredEntitlementIsReadOnly(t *testing.T) {
	ctx := context.Background()

	habitRepo := new(MockHabitRepository)
	logRepo := new(MockCompletionLogRepository)

	service := NewService(habitRepo, logRepo, stubGate{active: false})

	_, err := service.Toggle(ctx, uuid.New(), time.Now())

	assert.ErrorIs(t, err, ErrReadOnly)
	habitRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateRule_ValidatesFrequency(t *testing.T) {
	ctx := context.Background()

	habitRepo := new(MockHabitRepository)
	logRepo := new(MockCompletionLogRepository)

	service := NewService(habitRepo, logRepo, stubGate{active: true})

	err := service.CreateRule(ctx, &domain.ObligationRule{
		Name:      "Gym",
		Frequency: domain.Frequency{Type: domain.FrequencyWeeklyOnDays}, // empty weekday set
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one weekday")
	habitRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRule_AssignsID(t *testing.T) {
	ctx := context.Background()

	habitRepo := new(MockHabitRepository)
	logRepo := new(MockCompletionLogRepository)
	habitRepo.On("Create", ctx, mock.AnythingOfType("*domain.ObligationRule")).Return(nil)

	service := NewService(habitRepo, logRepo, stubGate{active: true})

	rule := &domain.ObligationRule{
		Name:      "Stretch",
		Frequency: domain.Frequency{Type: domain.FrequencyDaily},
	}

	require.NoError(t, service.CreateRule(ctx, rule))
	assert.NotEqual(t, uuid.Nil, rule.ID)
}
