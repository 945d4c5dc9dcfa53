package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

// BudgetFacade exposes the subset of application functionality required by the worker.
type BudgetFacade interface {
	BudgetsForRefresh(ctx context.Context, limit int) ([]model.Budget, error)
	RefreshBudget(ctx context.Context, budgetID int64) (float64, error)
}

// BudgetRefresher periodically recomputes the spent amount of budgets using a
// pool of workers. Batches are claimed by the store, so several instances may
// run against one database.
type BudgetRefresher struct {
	facade   BudgetFacade
	interval time.Duration
	batch    int
	workers  int
	logger   *slog.Logger

	jobs   chan model.Budget
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewBudgetRefresher constructs the refresher worker pool.
func NewBudgetRefresher(facade BudgetFacade, interval time.Duration, batch, workers int, logger *slog.Logger) *BudgetRefresher {
	if workers <= 0 {
		workers = 1
	}
	if batch <= 0 {
		batch = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &BudgetRefresher{
		facade:   facade,
		interval: interval,
		batch:    batch,
		workers:  workers,
		logger:   logger,
	}
}

// Start launches background processing. Calling Start on a running refresher is a no-op.
func (r *BudgetRefresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.jobs = make(chan model.Budget, r.batch*r.workers)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, r.jobs)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, r.jobs)
}

// Stop cancels processing and waits for all workers to finish.
func (r *BudgetRefresher) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *BudgetRefresher) dispatch(ctx context.Context, jobs chan<- model.Budget) {
	defer r.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx, jobs)
		}
	}
}

func (r *BudgetRefresher) fetchAndDispatch(ctx context.Context, jobs chan<- model.Budget) {
	budgets, err := r.facade.BudgetsForRefresh(ctx, r.batch)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("fetch budgets for refresh failed", slog.String("error", err.Error()))
		}
		return
	}
	for _, budget := range budgets {
		select {
		case <-ctx.Done():
			return
		case jobs <- budget:
		}
	}
}

func (r *BudgetRefresher) worker(ctx context.Context, jobs <-chan model.Budget) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case budget, ok := <-jobs:
			if !ok {
				return
			}
			r.handleBudget(ctx, budget)
		}
	}
}

func (r *BudgetRefresher) handleBudget(ctx context.Context, budget model.Budget) {
	spent, err := r.facade.RefreshBudget(ctx, budget.ID)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("refresh budget failed", slog.Int64("budget_id", budget.ID), slog.String("error", err.Error()))
		}
		return
	}

	budget.Spent = spent
	if budget.Exceeded() {
		r.logger.Info("budget exceeded",
			slog.Int64("budget_id", budget.ID),
			slog.Int64("user_id", budget.UserID),
			slog.Float64("amount", budget.Amount),
			slog.Float64("spent", spent),
		)
	}
}
