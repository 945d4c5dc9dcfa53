package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Expenses() ExpenseRepository
	Budgets() BudgetRepository
	Categories() CategoryRepository
	SavingsGoals() SavingsGoalRepository
	Analytics() AnalyticsRepository
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}
