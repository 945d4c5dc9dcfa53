package model

import "time"

// SavingsGoal tracks progress towards a target amount.
type SavingsGoal struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Name          string     `json:"name" validate:"required,max=100"`
	TargetAmount  float64    `json:"target_amount" validate:"gt=0"`
	CurrentAmount float64    `json:"current_amount" validate:"gte=0"`
	TargetDate    *time.Time `json:"target_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Completed reports whether the target has been reached.
func (g SavingsGoal) Completed() bool {
	return g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount
}

// Progress returns completion percentage capped at 100.
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount * 100
	if p > 100 {
		return 100
	}
	return p
}
