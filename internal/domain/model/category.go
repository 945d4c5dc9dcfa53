package model

import "time"

// CategoryType tells whether a category groups spending or income.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// Category labels expenses and budgets of a single user.
type Category struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Name      string       `json:"name" validate:"required,max=50"`
	Type      CategoryType `json:"type" validate:"required,oneof=expense income"`
	Color     string       `json:"color" validate:"omitempty,hexcolor"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
