package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

var expensesTable = table[model.Expense]{
	name:     "expenses",
	writable: []string{"category_id", "amount", "description", "date"},
	orderBy:  "date DESC, id DESC",
	scan: func(row pgx.Row, e *model.Expense) error {
		return row.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.Amount, &e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	},
	values: func(e model.Expense) []any {
		return []any{e.CategoryID, e.Amount, e.Description, e.Date}
	},
}

var categoriesTable = table[model.Category]{
	name:     "categories",
	writable: []string{"name", "type", "color"},
	orderBy:  "name, id",
	scan: func(row pgx.Row, c *model.Category) error {
		return row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	},
	values: func(c model.Category) []any {
		return []any{c.Name, c.Type, c.Color}
	},
}

var budgetsTable = table[model.Budget]{
	name:     "budgets",
	writable: []string{"category_id", "name", "amount", "start_date", "end_date"},
	computed: []string{"spent", "refreshed_at"},
	orderBy:  "start_date DESC, id DESC",
	scan: func(row pgx.Row, b *model.Budget) error {
		return row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &b.StartDate, &b.EndDate,
			&b.Spent, &b.RefreshedAt, &b.CreatedAt, &b.UpdatedAt)
	},
	values: func(b model.Budget) []any {
		return []any{b.CategoryID, b.Name, b.Amount, b.StartDate, b.EndDate}
	},
}

var savingsGoalsTable = table[model.SavingsGoal]{
	name:     "savings_goals",
	writable: []string{"name", "target_amount", "current_amount", "target_date"},
	orderBy:  "created_at DESC, id DESC",
	scan: func(row pgx.Row, g *model.SavingsGoal) error {
		return row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate, &g.CreatedAt, &g.UpdatedAt)
	},
	values: func(g model.SavingsGoal) []any {
		return []any{g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate}
	},
}
