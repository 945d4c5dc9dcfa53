package repository

import (
	"context"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

// ScopedRepository persists entities owned by a single user. Every operation
// filters by userID; rows of other users behave as if they did not exist.
type ScopedRepository[T any] interface {
	Create(ctx context.Context, userID int64, item T) (*T, error)
	Get(ctx context.Context, userID, id int64) (*T, error)
	List(ctx context.Context, userID int64) ([]T, error)
	Update(ctx context.Context, userID, id int64, item T) (*T, error)
	Delete(ctx context.Context, userID, id int64) error
}

type (
	ExpenseRepository     = ScopedRepository[model.Expense]
	CategoryRepository    = ScopedRepository[model.Category]
	SavingsGoalRepository = ScopedRepository[model.SavingsGoal]
)

// BudgetRepository adds spent bookkeeping used by the budget refresher.
type BudgetRepository interface {
	ScopedRepository[model.Budget]
	SelectBatchForRefresh(ctx context.Context, limit int) ([]model.Budget, error)
	RefreshSpent(ctx context.Context, budgetID int64) (float64, error)
}
