package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fintrack/internal/config"
	"github.com/polkiloo/fintrack/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(s *Storage) repository.Pinger { return s },
		func(s *Storage) repository.UserRepository { return s.Users() },
		func(s *Storage) repository.ExpenseRepository { return s.Expenses() },
		func(s *Storage) repository.CategoryRepository { return s.Categories() },
		func(s *Storage) repository.SavingsGoalRepository { return s.SavingsGoals() },
		func(s *Storage) repository.BudgetRepository { return s.Budgets() },
		func(s *Storage) repository.AnalyticsRepository { return s.Analytics() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
