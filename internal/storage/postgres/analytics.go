package postgres

import (
	"context"
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

type analyticsRepository struct {
	storage *Storage
}

func (r *analyticsRepository) TotalSpent(ctx context.Context, userID int64, from, to time.Time) (float64, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM expenses
                   WHERE user_id=$1 AND date BETWEEN $2 AND $3`
	var total float64
	if err := r.storage.pool.QueryRow(ctx, query, userID, from, to).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *analyticsRepository) SpentByCategory(ctx context.Context, userID int64, from, to time.Time) ([]model.CategoryAmount, error) {
	const query = `SELECT e.category_id, COALESCE(c.name, ''), SUM(e.amount) AS total
                   FROM expenses e
                   LEFT JOIN categories c ON c.id = e.category_id AND c.user_id = e.user_id
                   WHERE e.user_id=$1 AND e.date BETWEEN $2 AND $3
                   GROUP BY e.category_id, c.name
                   ORDER BY total DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.CategoryAmount, 0)
	for rows.Next() {
		var ca model.CategoryAmount
		if err := rows.Scan(&ca.CategoryID, &ca.Name, &ca.Amount); err != nil {
			return nil, err
		}
		result = append(result, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *analyticsRepository) MonthlyTotals(ctx context.Context, userID int64, from, to time.Time) ([]model.MonthlyTotal, error) {
	const query = `SELECT date_trunc('month', date)::date AS month, SUM(amount)
                   FROM expenses
                   WHERE user_id=$1 AND date BETWEEN $2 AND $3
                   GROUP BY month
                   ORDER BY month`
	rows, err := r.storage.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.MonthlyTotal, 0)
	for rows.Next() {
		var mt model.MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Amount); err != nil {
			return nil, err
		}
		result = append(result, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
