package dto

import (
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

// Request bodies never carry user_id; ownership comes from the token.

type ExpenseRequest struct {
	CategoryID  *int64  `json:"category_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        Date    `json:"date"`
}

func (r ExpenseRequest) ToModel() model.Expense {
	return model.Expense{
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Description: r.Description,
		Date:        r.Date.Time,
	}
}

type ExpenseResponse struct {
	ID          int64     `json:"id"`
	CategoryID  *int64    `json:"category_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        Date      `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewExpenseResponse(e model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        NewDate(e.Date),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

func (r CategoryRequest) ToModel() model.Category {
	return model.Category{Name: r.Name, Type: model.CategoryType(r.Type), Color: r.Color}
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type BudgetRequest struct {
	CategoryID *int64  `json:"category_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	StartDate  Date    `json:"start_date"`
	EndDate    Date    `json:"end_date"`
}

func (r BudgetRequest) ToModel() model.Budget {
	return model.Budget{
		CategoryID: r.CategoryID,
		Name:       r.Name,
		Amount:     r.Amount,
		StartDate:  r.StartDate.Time,
		EndDate:    r.EndDate.Time,
	}
}

type BudgetResponse struct {
	ID          int64      `json:"id"`
	CategoryID  *int64     `json:"category_id"`
	Name        string     `json:"name"`
	Amount      float64    `json:"amount"`
	Spent       float64    `json:"spent"`
	Remaining   float64    `json:"remaining"`
	Progress    float64    `json:"progress"`
	Exceeded    bool       `json:"exceeded"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	RefreshedAt *time.Time `json:"refreshed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewBudgetResponse(b model.Budget) BudgetResponse {
	return BudgetResponse{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		Name:        b.Name,
		Amount:      b.Amount,
		Spent:       b.Spent,
		Remaining:   b.Remaining(),
		Progress:    b.Progress(),
		Exceeded:    b.Exceeded(),
		StartDate:   NewDate(b.StartDate),
		EndDate:     NewDate(b.EndDate),
		RefreshedAt: b.RefreshedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type SavingsGoalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    *Date   `json:"target_date"`
}

func (r SavingsGoalRequest) ToModel() model.SavingsGoal {
	return model.SavingsGoal{
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		TargetDate:    timePtr(r.TargetDate),
	}
}

type SavingsGoalResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	TargetDate    *Date     `json:"target_date"`
	Progress      float64   `json:"progress"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewSavingsGoalResponse(g model.SavingsGoal) SavingsGoalResponse {
	return SavingsGoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		TargetDate:    datePtr(g.TargetDate),
		Progress:      g.Progress(),
		Completed:     g.Completed(),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}
