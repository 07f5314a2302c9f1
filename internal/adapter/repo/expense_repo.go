package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mandalfund/internal/domain"
)

// ExpenseRepositoryPG implements domain.ExpenseRepository using PostgreSQL.
type ExpenseRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new expense repo.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepositoryPG {
	return &ExpenseRepositoryPG{pool: pool}
}

// Create inserts a new expense record.
func (r *ExpenseRepositoryPG) Create(ctx context.Context, expense *domain.Expense) error {
	var date *time.Time
	if !expense.Date.IsZero() {
		date = &expense.Date
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO expenses (id, mandal_id, created_by, amount, category, description, date, receipt_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`, expense.ID, expense.MandalID, expense.CreatedBy, int64(expense.Amount),
		expense.Category, expense.Description, date, expense.ReceiptURL)
	return err
}

// ListByMandal returns all expenses for a mandal, newest first.
func (r *ExpenseRepositoryPG) ListByMandal(ctx context.Context, mandalID string) ([]domain.Expense, error) {
	return r.list(ctx, `
SELECT id, mandal_id, created_by, amount, category, description, date, receipt_url, created_at
FROM expenses
WHERE mandal_id = $1
ORDER BY date DESC NULLS LAST, created_at DESC;
`, mandalID)
}

// ListByUser returns a member's own expenses within a mandal.
func (r *ExpenseRepositoryPG) ListByUser(ctx context.Context, mandalID, userID string) ([]domain.Expense, error) {
	return r.list(ctx, `
SELECT id, mandal_id, created_by, amount, category, description, date, receipt_url, created_at
FROM expenses
WHERE mandal_id = $1 AND created_by = $2
ORDER BY date DESC NULLS LAST, created_at DESC;
`, mandalID, userID)
}

func (r *ExpenseRepositoryPG) list(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Expense
	for rows.Next() {
		var e domain.Expense
		var amount int64
		var date *time.Time
		if err := rows.Scan(&e.ID, &e.MandalID, &e.CreatedBy, &amount, &e.Category, &e.Description, &date, &e.ReceiptURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Amount = domain.Amount(amount)
		if date != nil {
			// a NULL date leaves the zero time, which the aggregator
			// skips when bucketing by day
			e.Date = *date
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Delete removes an expense.
func (r *ExpenseRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
