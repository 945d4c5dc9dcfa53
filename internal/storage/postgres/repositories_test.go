package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	"github.com/polkiloo/fintrack/internal/domain/model"
)

var (
	userRowColumns    = []string{"id", "username", "email", "password_hash", "is_active", "last_login_at", "created_at", "updated_at"}
	expenseRowColumns = []string{"id", "user_id", "category_id", "amount", "description", "date", "created_at", "updated_at"}
	budgetRowColumns  = []string{"id", "user_id", "category_id", "name", "amount", "start_date", "end_date", "spent", "refreshed_at", "created_at", "updated_at"}
)

func TestUserRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &userRepository{storage: storage}
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").WithArgs("alice", "alice@x.io", "hash").WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(int64(1), "alice", "alice@x.io", "hash", true, nil, now, now),
	)
	user, err := repo.Create(ctx, model.User{Username: "alice", Email: "alice@x.io", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery("INSERT INTO users").WithArgs("alice", "alice@x.io", "hash").WillReturnError(&pgconn.PgError{Code: "23505"})
	if _, err := repo.Create(ctx, model.User{Username: "alice", Email: "alice@x.io", PasswordHash: "hash"}); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}

	mock.ExpectQuery("FROM users WHERE lower").WithArgs("alice@x.io").WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(int64(1), "alice", "alice@x.io", "hash", true, &now, now, now))
	found, err := repo.GetByEmail(ctx, "alice@x.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.LastLoginAt == nil {
		t.Fatal("expected last login to be scanned")
	}

	mock.ExpectQuery("FROM users WHERE lower").WithArgs("missing@x.io").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByEmail(ctx, "missing@x.io"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM users WHERE id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(int64(1), "alice", "alice@x.io", "hash", false, nil, now, now))
	byID, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.IsActive {
		t.Fatal("expected inactive flag to be scanned")
	}

	mock.ExpectQuery("FROM users WHERE id=").WithArgs(int64(3)).WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(ctx, 3); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	mock.ExpectExec("UPDATE users SET last_login_at").WithArgs(int64(1), now).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.TouchLastLogin(ctx, 1, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE users SET last_login_at").WithArgs(int64(9), now).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.TouchLastLogin(ctx, 9, now); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("UPDATE users SET last_login_at").WithArgs(int64(1), now).WillReturnError(errors.New("exec"))
	if err := repo.TouchLastLogin(ctx, 1, now); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestTableQueries(t *testing.T) {
	insert := expensesTable.insertQuery()
	if insert != "INSERT INTO expenses (user_id, category_id, amount, description, date) VALUES ($1, $2, $3, $4, $5) "+
		"RETURNING id, user_id, category_id, amount, description, date, created_at, updated_at" {
		t.Fatalf("unexpected insert query: %s", insert)
	}

	update := budgetsTable.updateQuery()
	if !strings.HasPrefix(update, "UPDATE budgets SET category_id=$3, name=$4, amount=$5, start_date=$6, end_date=$7, updated_at=NOW() WHERE id=$1 AND user_id=$2") {
		t.Fatalf("unexpected update query: %s", update)
	}
	if !strings.Contains(update, "spent, refreshed_at") {
		t.Fatalf("expected computed columns in returning list: %s", update)
	}
	if strings.Contains(update, "spent=") {
		t.Fatalf("computed columns must not be writable: %s", update)
	}

	for _, q := range []string{categoriesTable.getQuery(), savingsGoalsTable.deleteQuery()} {
		if !strings.Contains(q, "id=$1 AND user_id=$2") {
			t.Fatalf("query is not scoped by owner: %s", q)
		}
	}
	if !strings.Contains(expensesTable.listQuery(), "WHERE user_id=$1 ORDER BY date DESC") {
		t.Fatalf("unexpected list query: %s", expensesTable.listQuery())
	}
}

func TestScopedRepositoryCRUD(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Expenses()
	ctx := context.Background()

	now := time.Now()
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	categoryID := int64(4)
	input := model.Expense{CategoryID: &categoryID, Amount: 12.5, Description: "lunch", Date: day}

	mock.ExpectQuery("INSERT INTO expenses").WithArgs(int64(1), &categoryID, 12.5, "lunch", day).WillReturnRows(
		pgxmockv3.NewRows(expenseRowColumns).AddRow(int64(10), int64(1), &categoryID, 12.5, "lunch", day, now, now),
	)
	created, err := repo.Create(ctx, 1, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 10 || created.UserID != 1 || created.CategoryID == nil || *created.CategoryID != 4 {
		t.Fatalf("unexpected expense: %+v", created)
	}

	mock.ExpectQuery("FROM expenses WHERE id=").WithArgs(int64(10), int64(1)).WillReturnRows(
		pgxmockv3.NewRows(expenseRowColumns).AddRow(int64(10), int64(1), nil, 12.5, "lunch", day, now, now),
	)
	got, err := repo.Get(ctx, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CategoryID != nil {
		t.Fatalf("expected uncategorized expense, got %v", *got.CategoryID)
	}

	mock.ExpectQuery("FROM expenses WHERE id=").WithArgs(int64(10), int64(2)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Get(ctx, 2, 10); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected foreign row to be not found, got %v", err)
	}

	mock.ExpectQuery("FROM expenses WHERE user_id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows(expenseRowColumns).
			AddRow(int64(11), int64(1), nil, 3.0, "coffee", day, now, now).
			AddRow(int64(10), int64(1), nil, 12.5, "lunch", day, now, now),
	)
	list, err := repo.List(ctx, 1)
	if err != nil || len(list) != 2 || list[0].ID != 11 {
		t.Fatalf("unexpected list: %v err=%v", list, err)
	}

	mock.ExpectQuery("FROM expenses WHERE user_id=").WithArgs(int64(5)).WillReturnRows(pgxmockv3.NewRows(expenseRowColumns))
	list, err = repo.List(ctx, 5)
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v err=%v", list, err)
	}

	mock.ExpectQuery("FROM expenses WHERE user_id=").WithArgs(int64(6)).WillReturnError(errors.New("query"))
	if _, err := repo.List(ctx, 6); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM expenses WHERE user_id=").WithArgs(int64(7)).WillReturnRows(
		pgxmockv3.NewRows(expenseRowColumns).AddRow("bad", int64(7), nil, 1.0, "", day, now, now),
	)
	if _, err := repo.List(ctx, 7); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectQuery("UPDATE expenses SET").WithArgs(int64(10), int64(1), &categoryID, 20.0, "dinner", day).WillReturnRows(
		pgxmockv3.NewRows(expenseRowColumns).AddRow(int64(10), int64(1), &categoryID, 20.0, "dinner", day, now, now),
	)
	updated, err := repo.Update(ctx, 1, 10, model.Expense{CategoryID: &categoryID, Amount: 20, Description: "dinner", Date: day})
	if err != nil || updated.Amount != 20 {
		t.Fatalf("unexpected update: %+v err=%v", updated, err)
	}

	mock.ExpectQuery("UPDATE expenses SET").WithArgs(int64(10), int64(2), pgxmockv3.AnyArg(), 20.0, "dinner", day).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Update(ctx, 2, 10, model.Expense{Amount: 20, Description: "dinner", Date: day}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("DELETE FROM expenses").WithArgs(int64(10), int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	if err := repo.Delete(ctx, 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("DELETE FROM expenses").WithArgs(int64(10), int64(2)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	if err := repo.Delete(ctx, 2, 10); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("DELETE FROM expenses").WithArgs(int64(10), int64(1)).WillReturnError(errors.New("exec"))
	if err := repo.Delete(ctx, 1, 10); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCategoryRepositoryDuplicateName(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Categories()

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs(int64(1), "Food", model.CategoryTypeExpense, "#ff0000").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err := repo.Create(context.Background(), 1, model.Category{Name: "Food", Type: model.CategoryTypeExpense, Color: "#ff0000"})
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestScopedRepositoryListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := storage.SavingsGoals()

	if _, err := repo.List(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestBudgetSelectBatchForRefresh(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &budgetRepository{scopedRepository: newScopedRepository(storage, budgetsTable)}
	ctx := context.Background()

	now := time.Now()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	const selectPattern = "FROM budgets ORDER BY refreshed_at NULLS FIRST"

	mock.ExpectBegin()
	mock.ExpectQuery(selectPattern).WithArgs(5).WillReturnRows(
		pgxmockv3.NewRows(budgetRowColumns).
			AddRow(int64(1), int64(1), nil, "Food", 300.0, start, end, 0.0, nil, now, now).
			AddRow(int64(2), int64(2), nil, "Rent", 900.0, start, end, 900.0, &now, now, now),
	)
	mock.ExpectExec("UPDATE budgets SET refreshed_at").WithArgs([]int64{1, 2}).WillReturnResult(pgxmockv3.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	budgets, err := repo.SelectBatchForRefresh(ctx, 5)
	if err != nil || len(budgets) != 2 || budgets[1].Spent != 900 {
		t.Fatalf("unexpected result: %v err=%v", budgets, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(selectPattern).WithArgs(1).WillReturnRows(pgxmockv3.NewRows(budgetRowColumns))
	mock.ExpectCommit()
	budgets, err = repo.SelectBatchForRefresh(ctx, 1)
	if err != nil || len(budgets) != 0 {
		t.Fatalf("expected empty slice: %v err=%v", budgets, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(selectPattern).WithArgs(1).WillReturnError(errors.New("query"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForRefresh(ctx, 1); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectBegin()
	mock.ExpectQuery(selectPattern).WithArgs(1).WillReturnRows(
		pgxmockv3.NewRows(budgetRowColumns).AddRow(int64(1), int64(1), nil, "Food", 300.0, start, end, 0.0, nil, now, now),
	)
	mock.ExpectExec("UPDATE budgets SET refreshed_at").WithArgs([]int64{1}).WillReturnError(errors.New("update"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForRefresh(ctx, 1); err == nil {
		t.Fatal("expected update error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBudgetSelectBatchForRefreshRowsError(t *testing.T) {
	rows := &errorRows{err: errors.New("rows err")}
	tx := &rowsErrorTx{rows: rows}
	storage := &Storage{pool: &rowsErrorTxPool{tx: tx}}
	repo := &budgetRepository{scopedRepository: newScopedRepository(storage, budgetsTable)}

	if _, err := repo.SelectBatchForRefresh(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestBudgetRefreshSpent(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Budgets()

	mock.ExpectQuery("UPDATE budgets b SET").WithArgs(int64(3)).WillReturnRows(
		pgxmockv3.NewRows([]string{"spent"}).AddRow(120.5),
	)
	spent, err := repo.RefreshSpent(context.Background(), 3)
	if err != nil || spent != 120.5 {
		t.Fatalf("unexpected spent %v err=%v", spent, err)
	}

	mock.ExpectQuery("UPDATE budgets b SET").WithArgs(int64(4)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.RefreshSpent(context.Background(), 4); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestAnalyticsRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Analytics()
	ctx := context.Background()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	categoryID := int64(2)

	mock.ExpectQuery("SELECT COALESCE").WithArgs(int64(1), from, to).WillReturnRows(
		pgxmockv3.NewRows([]string{"sum"}).AddRow(42.0),
	)
	total, err := repo.TotalSpent(ctx, 1, from, to)
	if err != nil || total != 42 {
		t.Fatalf("unexpected total %v err=%v", total, err)
	}

	mock.ExpectQuery("SELECT COALESCE").WithArgs(int64(1), from, to).WillReturnError(errors.New("boom"))
	if _, err := repo.TotalSpent(ctx, 1, from, to); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("LEFT JOIN categories").WithArgs(int64(1), from, to).WillReturnRows(
		pgxmockv3.NewRows([]string{"category_id", "name", "total"}).
			AddRow(&categoryID, "Food", 30.0).
			AddRow(nil, "", 12.0),
	)
	byCategory, err := repo.SpentByCategory(ctx, 1, from, to)
	if err != nil || len(byCategory) != 2 {
		t.Fatalf("unexpected categories %v err=%v", byCategory, err)
	}
	if byCategory[0].CategoryID == nil || *byCategory[0].CategoryID != 2 || byCategory[1].CategoryID != nil {
		t.Fatalf("unexpected category ids: %+v", byCategory)
	}

	mock.ExpectQuery("LEFT JOIN categories").WithArgs(int64(1), from, to).WillReturnError(errors.New("boom"))
	if _, err := repo.SpentByCategory(ctx, 1, from, to); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("GROUP BY month").WithArgs(int64(1), from, to).WillReturnRows(
		pgxmockv3.NewRows([]string{"month", "sum"}).
			AddRow(from, 10.0).
			AddRow(from.AddDate(0, 1, 0), 32.0),
	)
	monthly, err := repo.MonthlyTotals(ctx, 1, from, to)
	if err != nil || len(monthly) != 2 || monthly[1].Amount != 32 {
		t.Fatalf("unexpected monthly %v err=%v", monthly, err)
	}

	mock.ExpectQuery("GROUP BY month").WithArgs(int64(1), from, to).WillReturnRows(
		pgxmockv3.NewRows([]string{"month", "sum"}).AddRow("bad", 10.0),
	)
	if _, err := repo.MonthlyTotals(ctx, 1, from, to); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
