package repository

import (
	"context"
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

// AnalyticsRepository runs read-only aggregate queries scoped by user.
type AnalyticsRepository interface {
	TotalSpent(ctx context.Context, userID int64, from, to time.Time) (float64, error)
	SpentByCategory(ctx context.Context, userID int64, from, to time.Time) ([]model.CategoryAmount, error)
	MonthlyTotals(ctx context.Context, userID int64, from, to time.Time) ([]model.MonthlyTotal, error)
}
