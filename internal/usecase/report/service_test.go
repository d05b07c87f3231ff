package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

// MockIncomeRepository is a mock implementation of IncomeRepository for testing
type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) Set(ctx context.Context, period domain.PeriodKey, amount decimal.Decimal) error {
	args := m.Called(ctx, period, amount)
	return args.Error(0)
}

func (m *MockIncomeRepository) Get(ctx context.Context, period domain.PeriodKey) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockIncomeRepository) List(ctx context.Context) (map[domain.PeriodKey]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.PeriodKey]decimal.Decimal), args.Error(1)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func tx(categoryID uuid.UUID, amount int64, day time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Amount:     decimal.NewFromInt(amount),
		Date:       day,
	}
}

func TestMonthlyTotals(t *testing.T) {
	ctx := context.Background()
	groceries := uuid.New()
	rent := uuid.New()

	txRepo := new(MockTransactionRepository)
	from := date(2026, time.July, 1)
	to := date(2026, time.August, 31)
	txRepo.On("ListRange", ctx, from, to).Return([]*domain.Transaction{
		tx(groceries, 200, date(2026, time.July, 3)),
		tx(rent, 950, date(2026, time.July, 1)),
		tx(groceries, 180, date(2026, time.August, 5)),
		tx(groceries, 70, date(2026, time.August, 19)),
		tx(rent, 950, date(2026, time.August, 1)),
	}, nil)

	service := NewService(txRepo, nil, nil, nil, fixedClock{})

	summaries, err := service.MonthlyTotals(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Most recent first
	august := summaries[0]
	july := summaries[1]
	assert.Equal(t, domain.PeriodKey{Year: 2026, Month: time.August}, august.Period)
	assert.Equal(t, domain.PeriodKey{Year: 2026, Month: time.July}, july.Period)

	assert.True(t, august.Total.Equal(decimal.NewFromInt(1200)))
	assert.True(t, july.Total.Equal(decimal.NewFromInt(1150)))

	// Per-category sums
	assert.True(t, august.ByCategory[groceries].Equal(decimal.NewFromInt(250)))
	assert.True(t, august.ByCategory[rent].Equal(decimal.NewFromInt(950)))

	// Delta against the immediately preceding month
	assert.True(t, august.DeltaVsPrevious.Equal(decimal.NewFromInt(50)))
	// July has no preceding data in range, so the delta is its own total
	assert.True(t, july.DeltaVsPrevious.Equal(decimal.NewFromInt(1150)))
}

func TestAudit_BalancePerPeriod(t *testing.T) {
	ctx := context.Background()
	category := uuid.New()

	txRepo := new(MockTransactionRepository)
	incomeRepo := new(MockIncomeRepository)

	txRepo.On("ListRange", ctx, time.Time{}, time.Time{}).Return([]*domain.Transaction{
		tx(category, 400, date(2026, time.June, 10)),
		tx(category, 300, date(2026, time.July, 12)),
		// August: income recorded but nothing spent
	}, nil)
	incomeRepo.On("List", ctx).Return(map[domain.PeriodKey]decimal.Decimal{
		{Year: 2026, Month: time.July}:   decimal.NewFromInt(1000),
		{Year: 2026, Month: time.August}: decimal.NewFromInt(1000),
		// June: spend only, income defaults to zero
	}, nil)

	service := NewService(txRepo, incomeRepo, nil, nil, fixedClock{})

	audit, err := service.Audit(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, audit.Entries, 3)

	// Most recent first
	assert.Equal(t, domain.PeriodKey{Year: 2026, Month: time.August}, audit.Entries[0].Period)
	assert.Equal(t, domain.PeriodKey{Year: 2026, Month: time.July}, audit.Entries[1].Period)
	assert.Equal(t, domain.PeriodKey{Year: 2026, Month: time.June}, audit.Entries[2].Period)

	assert.True(t, audit.Entries[0].Balance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, audit.Entries[1].Balance.Equal(decimal.NewFromInt(700)))
	// Absent income means negative spend, never "unknown"
	assert.True(t, audit.Entries[2].Balance.Equal(decimal.NewFromInt(-400)))

	assert.True(t, audit.TotalBalance.Equal(decimal.NewFromInt(1300)))
}

func TestAudit_IncrementalMatchesBulk(t *testing.T) {
	ctx := context.Background()
	category := uuid.New()

	// A year of data: Σ balance must equal Σ income − Σ spent computed
	// directly over the raw records.
	var txs []*domain.Transaction
	incomes := make(map[domain.PeriodKey]decimal.Decimal)
	totalIncome := decimal.Zero
	totalSpent := decimal.Zero

	for m := time.January; m <= time.December; m++ {
		spend := decimal.NewFromInt(int64(100 + 10*int(m)))
		income := decimal.NewFromInt(int64(90 + 20*int(m)))
		txs = append(txs, &domain.Transaction{
			ID:         uuid.New(),
			CategoryID: category,
			Amount:     spend,
			Date:       date(2026, m, 15),
		})
		incomes[domain.PeriodKey{Year: 2026, Month: m}] = income
		totalIncome = totalIncome.Add(income)
		totalSpent = totalSpent.Add(spend)
	}

	txRepo := new(MockTransactionRepository)
	incomeRepo := new(MockIncomeRepository)
	txRepo.On("ListRange", ctx, time.Time{}, time.Time{}).Return(txs, nil)
	incomeRepo.On("List", ctx).Return(incomes, nil)

	service := NewService(txRepo, incomeRepo, nil, nil, fixedClock{})

	audit, err := service.Audit(ctx, nil, nil)
	require.NoError(t, err)

	assert.True(t, audit.TotalBalance.Equal(totalIncome.Sub(totalSpent)),
		"incremental audit total %s should equal bulk %s", audit.TotalBalance, totalIncome.Sub(totalSpent))
}

func TestAudit_RangeFilter(t *testing.T) {
	ctx := context.Background()
	category := uuid.New()

	txRepo := new(MockTransactionRepository)
	incomeRepo := new(MockIncomeRepository)

	txRepo.On("ListRange", ctx, time.Time{}, time.Time{}).Return([]*domain.Transaction{
		tx(category, 100, date(2025, time.December, 10)),
		tx(category, 200, date(2026, time.January, 10)),
		tx(category, 300, date(2026, time.February, 10)),
	}, nil)
	incomeRepo.On("List", ctx).Return(map[domain.PeriodKey]decimal.Decimal{}, nil)

	service := NewService(txRepo, incomeRepo, nil, nil, fixedClock{})

	from := domain.PeriodKey{Year: 2026, Month: time.January}
	audit, err := service.Audit(ctx, &from, nil)
	require.NoError(t, err)

	require.Len(t, audit.Entries, 2)
	assert.Equal(t, domain.PeriodKey{Year: 2026, Month: time.February}, audit.Entries[0].Period)
	assert.Equal(t, domain.PeriodKey{Year: 2026, Month: time.January}, audit.Entries[1].Period)
	assert.True(t, audit.TotalBalance.Equal(decimal.NewFromInt(-500)))
}
