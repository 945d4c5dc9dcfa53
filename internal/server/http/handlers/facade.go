package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/fintrack/internal/pkg/auth"
	"github.com/polkiloo/fintrack/internal/usecase"
)

// AuthFacade describes account capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, principal *pkgAuth.Principal) error
	Profile(ctx context.Context, userID int64) (*model.User, error)
}

// AnalyticsFacade exposes spending aggregates.
type AnalyticsFacade interface {
	Summary(ctx context.Context, userID int64, from, to time.Time) (*model.SpendingSummary, error)
}

type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// ResourceFacade hands out the user-scoped CRUD services.
type ResourceFacade interface {
	Expenses() usecase.Resource[model.Expense]
	Budgets() usecase.Resource[model.Budget]
	Categories() usecase.Resource[model.Category]
	SavingsGoals() usecase.Resource[model.SavingsGoal]
}

// FinanceFacade aggregates the full set of operations used across handlers.
type FinanceFacade interface {
	AuthFacade
	AnalyticsFacade
	HealthFacade
	ResourceFacade
}
