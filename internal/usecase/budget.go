package usecase

import (
	"context"

	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/domain/repository"
)

// BudgetRefreshUseCase keeps budget spent totals in step with expenses.
type BudgetRefreshUseCase struct {
	budgets repository.BudgetRepository
}

func NewBudgetRefreshUseCase(budgets repository.BudgetRepository) *BudgetRefreshUseCase {
	return &BudgetRefreshUseCase{budgets: budgets}
}

// SelectBatch claims up to limit budgets that are due for a refresh.
func (u *BudgetRefreshUseCase) SelectBatch(ctx context.Context, limit int) ([]model.Budget, error) {
	return u.budgets.SelectBatchForRefresh(ctx, limit)
}

// Refresh recomputes spent for a single budget.
func (u *BudgetRefreshUseCase) Refresh(ctx context.Context, budgetID int64) (float64, error) {
	return u.budgets.RefreshSpent(ctx, budgetID)
}
