package model

import "time"

// Budget caps spending over a date range, optionally for one category.
// Spent is maintained by the server from the owner's expenses.
type Budget struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CategoryID  *int64     `json:"category_id" validate:"omitempty,gt=0"`
	Name        string     `json:"name" validate:"required,max=100"`
	Amount      float64    `json:"amount" validate:"gt=0"`
	Spent       float64    `json:"spent"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     time.Time  `json:"end_date" validate:"required,gtefield=StartDate"`
	RefreshedAt *time.Time `json:"refreshed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Progress returns spent as a percentage of the budgeted amount.
func (b Budget) Progress() float64 {
	if b.Amount <= 0 {
		return 0
	}
	return b.Spent / b.Amount * 100
}

// Remaining returns what is left to spend; negative when exceeded.
func (b Budget) Remaining() float64 {
	return b.Amount - b.Spent
}

// Exceeded reports whether spending went over the budget.
func (b Budget) Exceeded() bool {
	return b.Spent > b.Amount
}

// Covers reports whether t falls inside the budget period, both ends inclusive.
func (b Budget) Covers(t time.Time) bool {
	return !t.Before(b.StartDate) && !t.After(b.EndDate)
}
