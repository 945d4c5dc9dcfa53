package dto

import "github.com/polkiloo/fintrack/internal/domain/model"

type CategoryAmountResponse struct {
	CategoryID *int64  `json:"category_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
}

type MonthlyTotalResponse struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type GoalsResponse struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// SummaryResponse is the analytics dashboard payload.
type SummaryResponse struct {
	From       Date                     `json:"from"`
	To         Date                     `json:"to"`
	TotalSpent float64                  `json:"total_spent"`
	ByCategory []CategoryAmountResponse `json:"by_category"`
	Monthly    []MonthlyTotalResponse   `json:"monthly"`
	Budgets    []BudgetResponse         `json:"budgets"`
	Goals      GoalsResponse            `json:"goals"`
}

func NewSummaryResponse(s *model.SpendingSummary) SummaryResponse {
	resp := SummaryResponse{
		From:       NewDate(s.From),
		To:         NewDate(s.To),
		TotalSpent: s.TotalSpent,
		ByCategory: make([]CategoryAmountResponse, 0, len(s.ByCategory)),
		Monthly:    make([]MonthlyTotalResponse, 0, len(s.Monthly)),
		Budgets:    make([]BudgetResponse, 0, len(s.Budgets)),
		Goals:      GoalsResponse{Total: s.GoalsTotal, Completed: s.GoalsCompleted},
	}
	for _, c := range s.ByCategory {
		name := c.Name
		if c.CategoryID == nil && name == "" {
			name = "Uncategorized"
		}
		resp.ByCategory = append(resp.ByCategory, CategoryAmountResponse{CategoryID: c.CategoryID, Name: name, Amount: c.Amount})
	}
	for _, m := range s.Monthly {
		resp.Monthly = append(resp.Monthly, MonthlyTotalResponse{Month: m.Month.Format("2006-01"), Amount: m.Amount})
	}
	for _, b := range s.Budgets {
		resp.Budgets = append(resp.Budgets, NewBudgetResponse(b))
	}
	return resp
}
