package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/domain/repository"
)

// Resource is the user-scoped CRUD contract shared by every finance entity.
// Services expose the same method set as the stores behind them.
type Resource[T any] = repository.ScopedRepository[T]

// ResourceUseCase validates items and delegates to a scoped repository.
type ResourceUseCase[T any] struct {
	repo      repository.ScopedRepository[T]
	validator *Validator

	// normalize tidies input before validation.
	normalize func(item *T)
	// check runs cross-entity rules for userID before a write.
	check func(ctx context.Context, userID int64, item *T) error
	// after runs on the stored item following a successful write.
	after func(ctx context.Context, item *T) error
}

var _ Resource[model.Expense] = (*ResourceUseCase[model.Expense])(nil)

func (u *ResourceUseCase[T]) prepare(ctx context.Context, userID int64, item *T) error {
	if u.normalize != nil {
		u.normalize(item)
	}
	if err := u.validator.Struct(item); err != nil {
		return err
	}
	if u.check != nil {
		return u.check(ctx, userID, item)
	}
	return nil
}

func (u *ResourceUseCase[T]) finish(ctx context.Context, item *T) (*T, error) {
	if u.after != nil {
		if err := u.after(ctx, item); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (u *ResourceUseCase[T]) Create(ctx context.Context, userID int64, item T) (*T, error) {
	if err := u.prepare(ctx, userID, &item); err != nil {
		return nil, err
	}
	created, err := u.repo.Create(ctx, userID, item)
	if err != nil {
		return nil, err
	}
	return u.finish(ctx, created)
}

func (u *ResourceUseCase[T]) Get(ctx context.Context, userID, id int64) (*T, error) {
	if id <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	return u.repo.Get(ctx, userID, id)
}

func (u *ResourceUseCase[T]) List(ctx context.Context, userID int64) ([]T, error) {
	return u.repo.List(ctx, userID)
}

func (u *ResourceUseCase[T]) Update(ctx context.Context, userID, id int64, item T) (*T, error) {
	if id <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	if err := u.prepare(ctx, userID, &item); err != nil {
		return nil, err
	}
	updated, err := u.repo.Update(ctx, userID, id, item)
	if err != nil {
		return nil, err
	}
	return u.finish(ctx, updated)
}

func (u *ResourceUseCase[T]) Delete(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return domainErrors.ErrNotFound
	}
	return u.repo.Delete(ctx, userID, id)
}

// ownedCategory rejects category references the user does not own.
func ownedCategory[T any](categories repository.CategoryRepository, ref func(*T) *int64) func(context.Context, int64, *T) error {
	return func(ctx context.Context, userID int64, item *T) error {
		id := ref(item)
		if id == nil {
			return nil
		}
		if _, err := categories.Get(ctx, userID, *id); err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return domainErrors.NewValidationError("category_id", "unknown category")
			}
			return err
		}
		return nil
	}
}

// NewExpenseUseCase wires expense CRUD with category ownership checks.
func NewExpenseUseCase(expenses repository.ExpenseRepository, categories repository.CategoryRepository, v *Validator) *ResourceUseCase[model.Expense] {
	return &ResourceUseCase[model.Expense]{
		repo:      expenses,
		validator: v,
		normalize: func(e *model.Expense) {
			e.Description = strings.TrimSpace(e.Description)
		},
		check: ownedCategory(categories, func(e *model.Expense) *int64 { return e.CategoryID }),
	}
}

// NewCategoryUseCase wires category CRUD.
func NewCategoryUseCase(categories repository.CategoryRepository, v *Validator) *ResourceUseCase[model.Category] {
	return &ResourceUseCase[model.Category]{
		repo:      categories,
		validator: v,
		normalize: func(c *model.Category) {
			c.Name = strings.TrimSpace(c.Name)
			c.Type = model.CategoryType(strings.ToLower(strings.TrimSpace(string(c.Type))))
			c.Color = strings.TrimSpace(c.Color)
		},
	}
}

// NewSavingsGoalUseCase wires savings goal CRUD.
func NewSavingsGoalUseCase(goals repository.SavingsGoalRepository, v *Validator) *ResourceUseCase[model.SavingsGoal] {
	return &ResourceUseCase[model.SavingsGoal]{
		repo:      goals,
		validator: v,
		normalize: func(g *model.SavingsGoal) {
			g.Name = strings.TrimSpace(g.Name)
		},
	}
}

// NewBudgetUseCase wires budget CRUD. Spent is recomputed after each write
// so responses reflect current expenses without waiting for the refresher.
func NewBudgetUseCase(budgets repository.BudgetRepository, categories repository.CategoryRepository, v *Validator) *ResourceUseCase[model.Budget] {
	return &ResourceUseCase[model.Budget]{
		repo:      budgets,
		validator: v,
		normalize: func(b *model.Budget) {
			b.Name = strings.TrimSpace(b.Name)
			b.Spent = 0
			b.RefreshedAt = nil
		},
		check: ownedCategory(categories, func(b *model.Budget) *int64 { return b.CategoryID }),
		after: func(ctx context.Context, b *model.Budget) error {
			spent, err := budgets.RefreshSpent(ctx, b.ID)
			if err != nil {
				return err
			}
			b.Spent = spent
			return nil
		},
	}
}
