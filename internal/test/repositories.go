package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users   map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
	Touched []int64

	mu sync.Mutex
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	key := strings.ToLower(user.Email)
	if _, exists := s.Users[key]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	now := time.Now()
	stored := user
	stored.ID = s.Next
	stored.IsActive = true
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.Next++
	s.Users[key] = &stored
	s.ByID[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[strings.ToLower(email)]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// TouchLastLogin records the login time.
func (s *UserRepositoryStub) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.LastLoginAt = &at
	s.Touched = append(s.Touched, id)
	return nil
}

// Deactivate marks the user inactive.
func (s *UserRepositoryStub) Deactivate(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByID[id]; ok {
		user.IsActive = false
	}
}

// ScopedRepositoryStub is an in-memory user-scoped store. Items owned by
// another user behave as missing.
type ScopedRepositoryStub[T any] struct {
	Err error

	keys  func(*T) (id *int64, userID *int64)
	mu    sync.Mutex
	items map[int64]T
	next  int64
}

// NewScopedRepositoryStub builds a store; keys exposes the id and owner fields of T.
func NewScopedRepositoryStub[T any](keys func(*T) (*int64, *int64)) *ScopedRepositoryStub[T] {
	return &ScopedRepositoryStub[T]{keys: keys, items: make(map[int64]T), next: 1}
}

func NewExpenseRepositoryStub() *ScopedRepositoryStub[model.Expense] {
	return NewScopedRepositoryStub(func(e *model.Expense) (*int64, *int64) { return &e.ID, &e.UserID })
}

func NewCategoryRepositoryStub() *ScopedRepositoryStub[model.Category] {
	return NewScopedRepositoryStub(func(c *model.Category) (*int64, *int64) { return &c.ID, &c.UserID })
}

func NewSavingsGoalRepositoryStub() *ScopedRepositoryStub[model.SavingsGoal] {
	return NewScopedRepositoryStub(func(g *model.SavingsGoal) (*int64, *int64) { return &g.ID, &g.UserID })
}

func (s *ScopedRepositoryStub[T]) owned(userID, id int64) (T, bool) {
	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	_, owner := s.keys(&item)
	return item, *owner == userID
}

func (s *ScopedRepositoryStub[T]) Create(ctx context.Context, userID int64, item T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	id, owner := s.keys(&item)
	*id = s.next
	*owner = userID
	s.next++
	s.items[*id] = item
	return &item, nil
}

func (s *ScopedRepositoryStub[T]) Get(ctx context.Context, userID, id int64) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	item, ok := s.owned(userID, id)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &item, nil
}

// List returns the caller's items ordered by id.
func (s *ScopedRepositoryStub[T]) List(ctx context.Context, userID int64) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		if _, ok := s.owned(userID, id); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *ScopedRepositoryStub[T]) Update(ctx context.Context, userID, id int64, item T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.owned(userID, id); !ok {
		return nil, domainErrors.ErrNotFound
	}
	itemID, owner := s.keys(&item)
	*itemID = id
	*owner = userID
	s.items[id] = item
	return &item, nil
}

func (s *ScopedRepositoryStub[T]) Delete(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.owned(userID, id); !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// BudgetRepositoryStub adds refresh bookkeeping to the scoped store.
type BudgetRepositoryStub struct {
	*ScopedRepositoryStub[model.Budget]

	SelectBatchFn func(context.Context, int) ([]model.Budget, error)
	RefreshFn     func(context.Context, int64) (float64, error)

	refreshMu sync.Mutex
	Refreshed []int64
}

func NewBudgetRepositoryStub() *BudgetRepositoryStub {
	return &BudgetRepositoryStub{
		ScopedRepositoryStub: NewScopedRepositoryStub(func(b *model.Budget) (*int64, *int64) { return &b.ID, &b.UserID }),
	}
}

// SelectBatchForRefresh returns configured batch.
func (s *BudgetRepositoryStub) SelectBatchForRefresh(ctx context.Context, limit int) ([]model.Budget, error) {
	if s.SelectBatchFn != nil {
		return s.SelectBatchFn(ctx, limit)
	}
	return nil, nil
}

// RefreshSpent records the call and returns the override result or zero.
func (s *BudgetRepositoryStub) RefreshSpent(ctx context.Context, budgetID int64) (float64, error) {
	s.refreshMu.Lock()
	s.Refreshed = append(s.Refreshed, budgetID)
	s.refreshMu.Unlock()
	if s.RefreshFn != nil {
		return s.RefreshFn(ctx, budgetID)
	}
	return 0, nil
}

// RefreshedIDs returns a copy of the refreshed budget ids.
func (s *BudgetRepositoryStub) RefreshedIDs() []int64 {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return append([]int64(nil), s.Refreshed...)
}

// AnalyticsRepositoryStub returns canned aggregates.
type AnalyticsRepositoryStub struct {
	Total      float64
	ByCategory []model.CategoryAmount
	Monthly    []model.MonthlyTotal
	Err        error

	mu    sync.Mutex
	Calls []AnalyticsCall
}

// AnalyticsCall captures the scope of an aggregate query.
type AnalyticsCall struct {
	UserID   int64
	From, To time.Time
}

func (s *AnalyticsRepositoryStub) record(userID int64, from, to time.Time) {
	s.mu.Lock()
	s.Calls = append(s.Calls, AnalyticsCall{UserID: userID, From: from, To: to})
	s.mu.Unlock()
}

func (s *AnalyticsRepositoryStub) TotalSpent(ctx context.Context, userID int64, from, to time.Time) (float64, error) {
	s.record(userID, from, to)
	return s.Total, s.Err
}

func (s *AnalyticsRepositoryStub) SpentByCategory(ctx context.Context, userID int64, from, to time.Time) ([]model.CategoryAmount, error) {
	s.record(userID, from, to)
	return s.ByCategory, s.Err
}

func (s *AnalyticsRepositoryStub) MonthlyTotals(ctx context.Context, userID int64, from, to time.Time) ([]model.MonthlyTotal, error) {
	s.record(userID, from, to)
	return s.Monthly, s.Err
}

var (
	_ repository.UserRepository        = (*UserRepositoryStub)(nil)
	_ repository.ExpenseRepository     = (*ScopedRepositoryStub[model.Expense])(nil)
	_ repository.BudgetRepository      = (*BudgetRepositoryStub)(nil)
	_ repository.AnalyticsRepository   = (*AnalyticsRepositoryStub)(nil)
	_ repository.SavingsGoalRepository = (*ScopedRepositoryStub[model.SavingsGoal])(nil)
)
