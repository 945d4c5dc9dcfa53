package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/domain/repository"
	pkgAuth "github.com/polkiloo/fintrack/internal/pkg/auth"
	"github.com/polkiloo/fintrack/internal/usecase"
)

// FacadeParams lists the services the finance facade fronts.
type FacadeParams struct {
	fx.In

	Auth         *usecase.AuthUseCase
	Expenses     *usecase.ResourceUseCase[model.Expense]
	Budgets      *usecase.ResourceUseCase[model.Budget]
	Categories   *usecase.ResourceUseCase[model.Category]
	SavingsGoals *usecase.ResourceUseCase[model.SavingsGoal]
	Refresh      *usecase.BudgetRefreshUseCase
	Analytics    *usecase.AnalyticsUseCase
	Storage      repository.Pinger
	Redis        *redis.Client `optional:"true"`
}

// FinanceFacade is the single entry point used by the HTTP layer and the
// budget worker.
type FinanceFacade struct {
	auth         *usecase.AuthUseCase
	expenses     *usecase.ResourceUseCase[model.Expense]
	budgets      *usecase.ResourceUseCase[model.Budget]
	categories   *usecase.ResourceUseCase[model.Category]
	savingsGoals *usecase.ResourceUseCase[model.SavingsGoal]
	refresh      *usecase.BudgetRefreshUseCase
	analytics    *usecase.AnalyticsUseCase
	storage      repository.Pinger
	redis        *redis.Client
}

func NewFinanceFacade(p FacadeParams) *FinanceFacade {
	return &FinanceFacade{
		auth:         p.Auth,
		expenses:     p.Expenses,
		budgets:      p.Budgets,
		categories:   p.Categories,
		savingsGoals: p.SavingsGoals,
		refresh:      p.Refresh,
		analytics:    p.Analytics,
		storage:      p.Storage,
		redis:        p.Redis,
	}
}

func (f *FinanceFacade) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	return f.auth.Register(ctx, usecase.RegisterInput{Username: username, Email: email, Password: password})
}

func (f *FinanceFacade) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, usecase.LoginInput{Email: email, Password: password})
}

func (f *FinanceFacade) Logout(ctx context.Context, principal *pkgAuth.Principal) error {
	return f.auth.Logout(ctx, principal)
}

func (f *FinanceFacade) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return f.auth.Profile(ctx, userID)
}

// Authorize lets the facade act as the request authorizer.
func (f *FinanceFacade) Authorize(ctx context.Context, token string) (*pkgAuth.Principal, error) {
	return f.auth.Authorize(ctx, token)
}

func (f *FinanceFacade) Expenses() usecase.Resource[model.Expense] {
	return f.expenses
}

func (f *FinanceFacade) Budgets() usecase.Resource[model.Budget] {
	return f.budgets
}

func (f *FinanceFacade) Categories() usecase.Resource[model.Category] {
	return f.categories
}

func (f *FinanceFacade) SavingsGoals() usecase.Resource[model.SavingsGoal] {
	return f.savingsGoals
}

func (f *FinanceFacade) Summary(ctx context.Context, userID int64, from, to time.Time) (*model.SpendingSummary, error) {
	return f.analytics.Summary(ctx, userID, from, to)
}

func (f *FinanceFacade) BudgetsForRefresh(ctx context.Context, limit int) ([]model.Budget, error) {
	return f.refresh.SelectBatch(ctx, limit)
}

func (f *FinanceFacade) RefreshBudget(ctx context.Context, budgetID int64) (float64, error) {
	return f.refresh.Refresh(ctx, budgetID)
}

// HealthCheck pings the database and, when configured, redis.
func (f *FinanceFacade) HealthCheck(ctx context.Context) error {
	if err := f.storage.HealthCheck(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if f.redis != nil {
		if err := f.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
