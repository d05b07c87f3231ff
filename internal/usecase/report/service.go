package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/duetrack/duetrack-backend/internal/domain"
)

// MonthSummary aggregates one calendar month of transactions.
type MonthSummary struct {
	Period          domain.PeriodKey
	Total           decimal.Decimal
	ByCategory      map[uuid.UUID]decimal.Decimal
	DeltaVsPrevious decimal.Decimal // Total minus the immediately preceding month's total
}

// BalanceEntry is one period's income-versus-spend line in the audit.
// Periods with no recorded income default to zero income, not "unknown":
// the balance is simply negative spend for such months.
type BalanceEntry struct {
	Period  domain.PeriodKey
	Income  decimal.Decimal
	Spent   decimal.Decimal
	Balance decimal.Decimal
}

// BalanceAudit is the running-balance report: one entry per period that has
// either a transaction or a recorded income figure, most recent first, plus
// the accumulated balance across the requested range.
type BalanceAudit struct {
	Entries      []BalanceEntry
	TotalBalance decimal.Decimal
}

// Service computes reports over historical execution state. It is read-only
// and side-effect-free, hence safe under concurrent invocation.
type Service struct {
	TransactionRepo domain.TransactionRepository
	IncomeRepo      domain.IncomeRepository
	HabitRepo       domain.HabitRepository
	LogRepo         domain.CompletionLogRepository
	Clock           domain.Clock
}

// NewService creates a new report Service instance
func NewService(
	transactionRepo domain.TransactionRepository,
	incomeRepo domain.IncomeRepository,
	habitRepo domain.HabitRepository,
	logRepo domain.CompletionLogRepository,
	clock domain.Clock,
) *Service {
	return &Service{
		TransactionRepo: transactionRepo,
		IncomeRepo:      incomeRepo,
		HabitRepo:       habitRepo,
		LogRepo:         logRepo,
		Clock:           clock,
	}
}

// MonthlyTotals sums transaction amounts per category per month over the
// requested date range and compares each month against the immediately
// preceding one. Results are ordered most recent first.
func (s *Service) MonthlyTotals(ctx context.Context, from, to time.Time) ([]MonthSummary, error) {
	txs, err := s.TransactionRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals := make(map[domain.PeriodKey]decimal.Decimal)
	byCategory := make(map[domain.PeriodKey]map[uuid.UUID]decimal.Decimal)

	for _, tx := range txs {
		period := domain.PeriodOf(tx.Date)
		totals[period] = totals[period].Add(tx.Amount)

		if byCategory[period] == nil {
			byCategory[period] = make(map[uuid.UUID]decimal.Decimal)
		}
		byCategory[period][tx.CategoryID] = byCategory[period][tx.CategoryID].Add(tx.Amount)
	}

	periods := make([]domain.PeriodKey, 0, len(totals))
	for period := range totals {
		periods = append(periods, period)
	}
	domain.SortPeriodsDesc(periods)

	summaries := make([]MonthSummary, 0, len(periods))
	for _, period := range periods {
		// Missing preceding month counts as zero
		previous := totals[period.Prev()]
		summaries = append(summaries, MonthSummary{
			Period:          period,
			Total:           totals[period],
			ByCategory:      byCategory[period],
			DeltaVsPrevious: totals[period].Sub(previous),
		})
	}

	return summaries, nil
}

// Audit computes the running balance across every period that has either a
// transaction or a recorded income figure. A nil bound leaves that side of
// the range open; two nil bounds cover all recorded history.
func (s *Service) Audit(ctx context.Context, from, to *domain.PeriodKey) (*BalanceAudit, error) {
	txs, err := s.TransactionRepo.ListRange(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	incomes, err := s.IncomeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list income records: %w", err)
	}

	spent := make(map[domain.PeriodKey]decimal.Decimal)
	for _, tx := range txs {
		period := domain.PeriodOf(tx.Date)
		spent[period] = spent[period].Add(tx.Amount)
	}

	seen := make(map[domain.PeriodKey]bool)
	periods := make([]domain.PeriodKey, 0, len(spent)+len(incomes))
	for period := range spent {
		if !seen[period] && inRange(period, from, to) {
			seen[period] = true
			periods = append(periods, period)
		}
	}
	for period := range incomes {
		if !seen[period] && inRange(period, from, to) {
			seen[period] = true
			periods = append(periods, period)
		}
	}
	domain.SortPeriodsDesc(periods)

	audit := &BalanceAudit{Entries: make([]BalanceEntry, 0, len(periods))}
	for _, period := range periods {
		income := incomes[period]
		balance := income.Sub(spent[period])
		audit.Entries = append(audit.Entries, BalanceEntry{
			Period:  period,
			Income:  income,
			Spent:   spent[period],
			Balance: balance,
		})
		audit.TotalBalance = audit.TotalBalance.Add(balance)
	}

	return audit, nil
}

// HabitCompletionRate computes the due-versus-done rate for all habit rules
// over the requested window.
func (s *Service) HabitCompletionRate(ctx context.Context, from, to time.Time) (CompletionRate, error) {
	rules, err := s.HabitRepo.List(ctx)
	if err != nil {
		return CompletionRate{}, fmt.Errorf("failed to list habit rules: %w", err)
	}

	logs := make(map[uuid.UUID]*domain.CompletionLog, len(rules))
	for _, rule := range rules {
		log, err := s.LogRepo.Get(ctx, rule.ID)
		if err != nil {
			return CompletionRate{}, fmt.Errorf("failed to load completion log: %w", err)
		}
		logs[rule.ID] = log
	}

	return Rate(rules, logs, from, to), nil
}

// HabitStreak computes the current streak for one rule as of today.
func (s *Service) HabitStreak(ctx context.Context, ruleID uuid.UUID) (int, error) {
	log, err := s.LogRepo.Get(ctx, ruleID)
	if err != nil {
		return 0, fmt.Errorf("failed to load completion log: %w", err)
	}

	return Streak(log, s.Clock.Now()), nil
}

func inRange(period domain.PeriodKey, from, to *domain.PeriodKey) bool {
	if from != nil && period.Before(*from) {
		return false
	}
	if to != nil && to.Before(period) {
		return false
	}
	return true
}
