package usecase

import "go.uber.org/fx"

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewValidator,
	NewAuthUseCase,
	NewExpenseUseCase,
	NewCategoryUseCase,
	NewSavingsGoalUseCase,
	NewBudgetUseCase,
	NewBudgetRefreshUseCase,
	NewAnalyticsUseCase,
)
