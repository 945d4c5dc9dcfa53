package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/domain/repository"
)

// summaryMonths is the default look-back window including the current month.
const summaryMonths = 6

// AnalyticsUseCase builds read-only spending summaries.
type AnalyticsUseCase struct {
	analytics repository.AnalyticsRepository
	budgets   repository.BudgetRepository
	goals     repository.SavingsGoalRepository
	now       func() time.Time
}

func NewAnalyticsUseCase(analytics repository.AnalyticsRepository, budgets repository.BudgetRepository, goals repository.SavingsGoalRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{analytics: analytics, budgets: budgets, goals: goals, now: time.Now}
}

// DefaultRange returns the first day of the month five months back and today.
func DefaultRange(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	to := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	from := time.Date(y, m-(summaryMonths-1), 1, 0, 0, 0, 0, now.Location())
	return from, to
}

// Summary aggregates spending for userID between from and to inclusive.
// Zero bounds fall back to DefaultRange.
func (u *AnalyticsUseCase) Summary(ctx context.Context, userID int64, from, to time.Time) (*model.SpendingSummary, error) {
	defFrom, defTo := DefaultRange(u.now())
	if from.IsZero() {
		from = defFrom
	}
	if to.IsZero() {
		to = defTo
	}
	if from.After(to) {
		return nil, domainErrors.NewValidationError("from", "must not be after to")
	}

	summary := &model.SpendingSummary{From: from, To: to}
	var (
		budgets []model.Budget
		goals   []model.SavingsGoal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := u.analytics.TotalSpent(gctx, userID, from, to)
		summary.TotalSpent = total
		return err
	})
	g.Go(func() error {
		byCategory, err := u.analytics.SpentByCategory(gctx, userID, from, to)
		summary.ByCategory = byCategory
		return err
	})
	g.Go(func() error {
		monthly, err := u.analytics.MonthlyTotals(gctx, userID, from, to)
		summary.Monthly = monthly
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = u.budgets.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = u.goals.List(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Budgets = make([]model.Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.StartDate.After(to) || b.EndDate.Before(from) {
			continue
		}
		summary.Budgets = append(summary.Budgets, b)
	}

	summary.GoalsTotal = len(goals)
	for _, goal := range goals {
		if goal.Completed() {
			summary.GoalsCompleted++
		}
	}

	return summary, nil
}
