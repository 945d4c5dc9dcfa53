package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
)

// table describes how a user-owned entity maps onto its SQL table.
// Selected columns are: id, user_id, writable..., computed..., created_at, updated_at.
type table[T any] struct {
	name     string
	writable []string
	computed []string
	orderBy  string
	scan     func(row pgx.Row, item *T) error
	values   func(item T) []any
}

func (t table[T]) selectList() string {
	cols := make([]string, 0, len(t.writable)+len(t.computed)+4)
	cols = append(cols, "id", "user_id")
	cols = append(cols, t.writable...)
	cols = append(cols, t.computed...)
	cols = append(cols, "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

func (t table[T]) insertQuery() string {
	placeholders := make([]string, len(t.writable))
	for i := range t.writable {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}
	return fmt.Sprintf("INSERT INTO %s (user_id, %s) VALUES ($1, %s) RETURNING %s",
		t.name, strings.Join(t.writable, ", "), strings.Join(placeholders, ", "), t.selectList())
}

func (t table[T]) updateQuery() string {
	sets := make([]string, len(t.writable))
	for i, col := range t.writable {
		sets[i] = fmt.Sprintf("%s=$%d", col, i+3)
	}
	return fmt.Sprintf("UPDATE %s SET %s, updated_at=NOW() WHERE id=$1 AND user_id=$2 RETURNING %s",
		t.name, strings.Join(sets, ", "), t.selectList())
}

func (t table[T]) getQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id=$1 AND user_id=$2", t.selectList(), t.name)
}

func (t table[T]) listQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE user_id=$1 ORDER BY %s", t.selectList(), t.name, t.orderBy)
}

func (t table[T]) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id=$1 AND user_id=$2", t.name)
}

// scopedRepository implements repository.ScopedRepository for any table.
type scopedRepository[T any] struct {
	storage *Storage
	table   table[T]
}

func newScopedRepository[T any](s *Storage, t table[T]) *scopedRepository[T] {
	return &scopedRepository[T]{storage: s, table: t}
}

func (r *scopedRepository[T]) scanOne(row pgx.Row) (*T, error) {
	var item T
	if err := r.table.scan(row, &item); err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (r *scopedRepository[T]) Create(ctx context.Context, userID int64, item T) (*T, error) {
	args := append([]any{userID}, r.table.values(item)...)
	return r.scanOne(r.storage.pool.QueryRow(ctx, r.table.insertQuery(), args...))
}

func (r *scopedRepository[T]) Get(ctx context.Context, userID, id int64) (*T, error) {
	return r.scanOne(r.storage.pool.QueryRow(ctx, r.table.getQuery(), id, userID))
}

func (r *scopedRepository[T]) List(ctx context.Context, userID int64) ([]T, error) {
	rows, err := r.storage.pool.Query(ctx, r.table.listQuery(), userID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *scopedRepository[T]) collect(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		var item T
		if err := r.table.scan(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *scopedRepository[T]) Update(ctx context.Context, userID, id int64, item T) (*T, error) {
	args := append([]any{id, userID}, r.table.values(item)...)
	return r.scanOne(r.storage.pool.QueryRow(ctx, r.table.updateQuery(), args...))
}

func (r *scopedRepository[T]) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, r.table.deleteQuery(), id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
