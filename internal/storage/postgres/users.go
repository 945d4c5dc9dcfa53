package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	"github.com/polkiloo/fintrack/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

const userColumns = `id, username, email, password_hash, is_active, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	const query = `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
                   RETURNING ` + userColumns
	return scanUser(r.storage.pool.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE lower(email)=lower($1)`
	return scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE users SET last_login_at=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
