package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/domain/repository"
)

// FinanceFacadeStub backs HTTP layer tests with in-memory stores.
type FinanceFacadeStub struct {
	AuthFacadeStub

	SummaryFn func(ctx context.Context, userID int64, from, to time.Time) (*model.SpendingSummary, error)
	HealthFn  func(context.Context) error

	ExpenseStore     *ScopedRepositoryStub[model.Expense]
	BudgetStore      *BudgetRepositoryStub
	CategoryStore    *ScopedRepositoryStub[model.Category]
	SavingsGoalStore *ScopedRepositoryStub[model.SavingsGoal]
}

// NewFinanceFacadeStub constructs a facade stub with empty stores.
func NewFinanceFacadeStub() *FinanceFacadeStub {
	return &FinanceFacadeStub{
		ExpenseStore:     NewExpenseRepositoryStub(),
		BudgetStore:      NewBudgetRepositoryStub(),
		CategoryStore:    NewCategoryRepositoryStub(),
		SavingsGoalStore: NewSavingsGoalRepositoryStub(),
	}
}

func (s *FinanceFacadeStub) Expenses() repository.ScopedRepository[model.Expense] {
	return s.ExpenseStore
}

func (s *FinanceFacadeStub) Budgets() repository.ScopedRepository[model.Budget] {
	return s.BudgetStore
}

func (s *FinanceFacadeStub) Categories() repository.ScopedRepository[model.Category] {
	return s.CategoryStore
}

func (s *FinanceFacadeStub) SavingsGoals() repository.ScopedRepository[model.SavingsGoal] {
	return s.SavingsGoalStore
}

// Summary returns configured summary or an empty one for the range.
func (s *FinanceFacadeStub) Summary(ctx context.Context, userID int64, from, to time.Time) (*model.SpendingSummary, error) {
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, userID, from, to)
	}
	return &model.SpendingSummary{From: from, To: to}, nil
}

func (s *FinanceFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// WorkerFacadeStub mimics worker interactions with the finance facade.
type WorkerFacadeStub struct {
	Batches   [][]model.Budget
	BatchFn   func(context.Context, int) ([]model.Budget, error)
	RefreshFn func(context.Context, int64) (float64, error)

	mu        sync.Mutex
	refreshed []int64
	calls     int32
}

// BudgetsForRefresh returns batches from configured queue, then nothing.
func (s *WorkerFacadeStub) BudgetsForRefresh(ctx context.Context, limit int) ([]model.Budget, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// RefreshBudget records refresh requests.
func (s *WorkerFacadeStub) RefreshBudget(ctx context.Context, budgetID int64) (float64, error) {
	s.mu.Lock()
	s.refreshed = append(s.refreshed, budgetID)
	s.mu.Unlock()
	if s.RefreshFn != nil {
		return s.RefreshFn(ctx, budgetID)
	}
	return 0, nil
}

// RefreshedIDs returns a copy of the refreshed budget ids.
func (s *WorkerFacadeStub) RefreshedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.refreshed...)
}
