package model

import "time"

// CategoryAmount is a spending total for one category. CategoryID is nil for
// uncategorized expenses.
type CategoryAmount struct {
	CategoryID *int64
	Name       string
	Amount     float64
}

// MonthlyTotal is a spending total for one calendar month.
type MonthlyTotal struct {
	Month  time.Time
	Amount float64
}

// SpendingSummary aggregates a user's spending over a period.
type SpendingSummary struct {
	From           time.Time
	To             time.Time
	TotalSpent     float64
	ByCategory     []CategoryAmount
	Monthly        []MonthlyTotal
	Budgets        []Budget
	GoalsTotal     int
	GoalsCompleted int
}
