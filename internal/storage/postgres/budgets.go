package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

type budgetRepository struct {
	*scopedRepository[model.Budget]
}

// SelectBatchForRefresh claims the least recently refreshed budgets.
// Claimed rows get refreshed_at bumped so concurrent instances skip them.
func (r *budgetRepository) SelectBatchForRefresh(ctx context.Context, limit int) ([]model.Budget, error) {
	selectQuery := `SELECT ` + r.table.selectList() + `
                    FROM budgets
                    ORDER BY refreshed_at NULLS FIRST, id
                    LIMIT $1
                    FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE budgets SET refreshed_at=NOW() WHERE id = ANY($1)`

	var budgets []model.Budget
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		budgets, err = r.collect(rows)
		if err != nil {
			return err
		}
		if len(budgets) == 0 {
			return nil
		}

		ids := make([]int64, len(budgets))
		for i, b := range budgets {
			ids[i] = b.ID
		}
		_, err = tx.Exec(ctx, claimQuery, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

// RefreshSpent recomputes spent from the owner's expenses in the budget period.
func (r *budgetRepository) RefreshSpent(ctx context.Context, budgetID int64) (float64, error) {
	const query = `UPDATE budgets b SET
                       spent = COALESCE((
                           SELECT SUM(e.amount) FROM expenses e
                           WHERE e.user_id = b.user_id
                             AND e.date BETWEEN b.start_date AND b.end_date
                             AND (b.category_id IS NULL OR e.category_id = b.category_id)
                       ), 0),
                       refreshed_at = NOW()
                   WHERE b.id = $1
                   RETURNING spent`
	var spent float64
	if err := r.storage.pool.QueryRow(ctx, query, budgetID).Scan(&spent); err != nil {
		return 0, translateError(err)
	}
	return spent, nil
}
