package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mandalfund/internal/domain"
)

// SponsorRepositoryPG implements domain.SponsorRepository using PostgreSQL.
type SponsorRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSponsorRepository creates a new sponsor repo.
func NewSponsorRepository(pool *pgxpool.Pool) *SponsorRepositoryPG {
	return &SponsorRepositoryPG{pool: pool}
}

// Create inserts a sponsor contribution.
func (r *SponsorRepositoryPG) Create(ctx context.Context, sponsor *domain.SponsorContribution) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO sponsors (id, mandal_id, sponsor_name, amount, note, recorded_by)
VALUES ($1, $2, $3, $4, $5, $6);
`, sponsor.ID, sponsor.MandalID, sponsor.SponsorName, int64(sponsor.Amount), sponsor.Note, sponsor.RecordedBy)
	return err
}

// ListByMandal returns all sponsor contributions for a mandal, newest first.
func (r *SponsorRepositoryPG) ListByMandal(ctx context.Context, mandalID string) ([]domain.SponsorContribution, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, mandal_id, sponsor_name, amount, note, recorded_by, created_at
FROM sponsors
WHERE mandal_id = $1
ORDER BY created_at DESC;
`, mandalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.SponsorContribution
	for rows.Next() {
		var s domain.SponsorContribution
		var amount int64
		if err := rows.Scan(&s.ID, &s.MandalID, &s.SponsorName, &amount, &s.Note, &s.RecordedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Amount = domain.Amount(amount)
		items = append(items, s)
	}
	return items, rows.Err()
}

// Update persists name, amount, and note changes.
func (r *SponsorRepositoryPG) Update(ctx context.Context, sponsor *domain.SponsorContribution) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE sponsors
SET sponsor_name = $2, amount = $3, note = $4
WHERE id = $1;
`, sponsor.ID, sponsor.SponsorName, int64(sponsor.Amount), sponsor.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a sponsor contribution.
func (r *SponsorRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sponsors WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
