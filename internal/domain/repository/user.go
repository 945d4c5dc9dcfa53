package repository

import (
	"context"
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
