package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mandalfund/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Create inserts a new donation record.
func (r *DonationRepositoryPG) Create(ctx context.Context, donation *domain.Donation) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO donations (id, mandal_id, user_id, donor_name, amount, note)
VALUES ($1, $2, $3, $4, $5, $6);
`, donation.ID, donation.MandalID, donation.UserID, donation.DonorName, int64(donation.Amount), donation.Note)
	return err
}

// ListByMandal returns all donations for a mandal, newest first.
func (r *DonationRepositoryPG) ListByMandal(ctx context.Context, mandalID string) ([]domain.Donation, error) {
	return r.list(ctx, `
SELECT id, mandal_id, user_id, donor_name, amount, note, created_at
FROM donations
WHERE mandal_id = $1
ORDER BY created_at DESC;
`, mandalID)
}

// ListByUser returns a member's own donations within a mandal.
func (r *DonationRepositoryPG) ListByUser(ctx context.Context, mandalID, userID string) ([]domain.Donation, error) {
	return r.list(ctx, `
SELECT id, mandal_id, user_id, donor_name, amount, note, created_at
FROM donations
WHERE mandal_id = $1 AND user_id = $2
ORDER BY created_at DESC;
`, mandalID, userID)
}

func (r *DonationRepositoryPG) list(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		var amount int64
		if err := rows.Scan(&d.ID, &d.MandalID, &d.UserID, &d.DonorName, &amount, &d.Note, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Amount = domain.Amount(amount)
		items = append(items, d)
	}
	return items, rows.Err()
}

// Delete removes a donation.
func (r *DonationRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM donations WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
