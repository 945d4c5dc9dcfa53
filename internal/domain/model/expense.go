package model

import "time"

// Expense is a single spending record.
type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	CategoryID  *int64    `json:"category_id" validate:"omitempty,gt=0"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	Description string    `json:"description" validate:"max=500"`
	Date        time.Time `json:"date" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
