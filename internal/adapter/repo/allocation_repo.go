package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandalfund/internal/domain"
)

// AllocationRepositoryPG implements domain.AllocationRepository using
// PostgreSQL. Audit log rows live in allocation_logs and are written by the
// handler alongside each mutation.
type AllocationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAllocationRepository creates a new allocation repo.
func NewAllocationRepository(pool *pgxpool.Pool) *AllocationRepositoryPG {
	return &AllocationRepositoryPG{pool: pool}
}

// Create inserts a new allocation.
func (r *AllocationRepositoryPG) Create(ctx context.Context, allocation *domain.Allocation) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO user_allocations (id, mandal_id, user_id, amount)
VALUES ($1, $2, $3, $4);
`, allocation.ID, allocation.MandalID, allocation.UserID, int64(allocation.Amount))
	return err
}

// GetByID fetches one allocation.
func (r *AllocationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Allocation, error) {
	return r.getBy(ctx, `
SELECT id, mandal_id, user_id, amount, created_at, updated_at
FROM user_allocations
WHERE id = $1;
`, id)
}

// GetByUser fetches a member's allocation within a mandal.
func (r *AllocationRepositoryPG) GetByUser(ctx context.Context, mandalID, userID string) (*domain.Allocation, error) {
	return r.getBy(ctx, `
SELECT id, mandal_id, user_id, amount, created_at, updated_at
FROM user_allocations
WHERE mandal_id = $1 AND user_id = $2;
`, mandalID, userID)
}

func (r *AllocationRepositoryPG) getBy(ctx context.Context, query string, args ...any) (*domain.Allocation, error) {
	var a domain.Allocation
	var amount int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.MandalID, &a.UserID, &amount, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Amount = domain.Amount(amount)
	return &a, nil
}

// ListByMandal returns all allocations for a mandal, newest first.
func (r *AllocationRepositoryPG) ListByMandal(ctx context.Context, mandalID string) ([]domain.Allocation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, mandal_id, user_id, amount, created_at, updated_at
FROM user_allocations
WHERE mandal_id = $1
ORDER BY created_at DESC;
`, mandalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Allocation
	for rows.Next() {
		var a domain.Allocation
		var amount int64
		if err := rows.Scan(&a.ID, &a.MandalID, &a.UserID, &amount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Amount = domain.Amount(amount)
		items = append(items, a)
	}
	return items, rows.Err()
}

// Update persists an amount change.
func (r *AllocationRepositoryPG) Update(ctx context.Context, allocation *domain.Allocation) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE user_allocations
SET amount = $2, updated_at = now()
WHERE id = $1;
`, allocation.ID, int64(allocation.Amount))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an allocation.
func (r *AllocationRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_allocations WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AppendLog records one allocation mutation in the audit trail.
func (r *AllocationRepositoryPG) AppendLog(ctx context.Context, log *domain.AllocationLog) error {
	var prev, next *int64
	if log.PreviousAmount != nil {
		v := int64(*log.PreviousAmount)
		prev = &v
	}
	if log.NewAmount != nil {
		v := int64(*log.NewAmount)
		next = &v
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO allocation_logs (id, mandal_id, allocation_id, user_id, admin_id, action, previous_amount, new_amount)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`, log.ID, log.MandalID, log.AllocationID, log.UserID, log.AdminID, string(log.Action), prev, next)
	return err
}

// ListLogs returns the audit trail for a mandal, newest first. Logs carry
// their own mandal_id so the trail survives allocation deletes.
func (r *AllocationRepositoryPG) ListLogs(ctx context.Context, mandalID string) ([]domain.AllocationLog, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, allocation_id, user_id, admin_id, action, previous_amount, new_amount, created_at
FROM allocation_logs
WHERE mandal_id = $1
ORDER BY created_at DESC;
`, mandalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.AllocationLog
	for rows.Next() {
		var l domain.AllocationLog
		var action string
		var prev, next *int64
		if err := rows.Scan(&l.ID, &l.AllocationID, &l.UserID, &l.AdminID, &action, &prev, &next, &l.Timestamp); err != nil {
			return nil, err
		}
		l.Action = domain.AllocationAction(action)
		if prev != nil {
			v := domain.Amount(*prev)
			l.PreviousAmount = &v
		}
		if next != nil {
			v := domain.Amount(*next)
			l.NewAmount = &v
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
