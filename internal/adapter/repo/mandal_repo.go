package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandalfund/internal/domain"
)

// MandalRepositoryPG implements domain.MandalRepository using PostgreSQL.
type MandalRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewMandalRepository creates a new mandal repo.
func NewMandalRepository(pool *pgxpool.Pool) *MandalRepositoryPG {
	return &MandalRepositoryPG{pool: pool}
}

// Create inserts a new mandal.
func (r *MandalRepositoryPG) Create(ctx context.Context, mandal *domain.Mandal) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO mandals (id, slug, name, city, logo_url)
VALUES ($1, $2, $3, $4, $5);
`, mandal.ID, mandal.Slug, mandal.Name, mandal.City, mandal.LogoURL)
	return err
}

// GetByID fetches one mandal by id.
func (r *MandalRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Mandal, error) {
	return r.getBy(ctx, `
SELECT id, slug, name, city, logo_url, created_at, updated_at
FROM mandals
WHERE id = $1;
`, id)
}

// GetBySlug fetches one mandal by its URL slug.
func (r *MandalRepositoryPG) GetBySlug(ctx context.Context, slug string) (*domain.Mandal, error) {
	return r.getBy(ctx, `
SELECT id, slug, name, city, logo_url, created_at, updated_at
FROM mandals
WHERE slug = $1;
`, slug)
}

func (r *MandalRepositoryPG) getBy(ctx context.Context, query string, arg any) (*domain.Mandal, error) {
	var m domain.Mandal
	err := r.pool.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Slug, &m.Name, &m.City, &m.LogoURL, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all mandals ordered by name.
func (r *MandalRepositoryPG) List(ctx context.Context) ([]domain.Mandal, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, slug, name, city, logo_url, created_at, updated_at
FROM mandals
ORDER BY name;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Mandal
	for rows.Next() {
		var m domain.Mandal
		if err := rows.Scan(&m.ID, &m.Slug, &m.Name, &m.City, &m.LogoURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Update persists name, city, and logo changes.
func (r *MandalRepositoryPG) Update(ctx context.Context, mandal *domain.Mandal) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE mandals
SET name = $2, city = $3, logo_url = $4, updated_at = now()
WHERE id = $1;
`, mandal.ID, mandal.Name, mandal.City, mandal.LogoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a mandal and, via cascades, its memberships.
func (r *MandalRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM mandals WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Membership fetches a user's membership row in a mandal.
func (r *MandalRepositoryPG) Membership(ctx context.Context, mandalID, userID string) (*domain.MandalMembership, error) {
	var m domain.MandalMembership
	var role, status string
	err := r.pool.QueryRow(ctx, `
SELECT mandal_id, user_id, role, status, created_at
FROM mandal_users
WHERE mandal_id = $1 AND user_id = $2;
`, mandalID, userID).Scan(&m.MandalID, &m.UserID, &role, &status, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotMember
	}
	if err != nil {
		return nil, err
	}
	m.Role = domain.ParseRole(role)
	m.Status = domain.MembershipStatus(status)
	return &m, nil
}

// Members returns every membership row of a mandal, pending ones included.
func (r *MandalRepositoryPG) Members(ctx context.Context, mandalID string) ([]domain.MandalMembership, error) {
	rows, err := r.pool.Query(ctx, `
SELECT mandal_id, user_id, role, status, created_at
FROM mandal_users
WHERE mandal_id = $1
ORDER BY created_at;
`, mandalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MandalMembership
	for rows.Next() {
		var m domain.MandalMembership
		var role, status string
		if err := rows.Scan(&m.MandalID, &m.UserID, &role, &status, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.ParseRole(role)
		m.Status = domain.MembershipStatus(status)
		items = append(items, m)
	}
	return items, rows.Err()
}

// AddMembership upserts a membership row.
func (r *MandalRepositoryPG) AddMembership(ctx context.Context, membership *domain.MandalMembership) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO mandal_users (mandal_id, user_id, role, status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (mandal_id, user_id) DO UPDATE SET role = EXCLUDED.role, status = EXCLUDED.status;
`, membership.MandalID, membership.UserID, membership.Role.String(), string(membership.Status))
	return err
}

// PrimarySlugFor returns the slug of the user's oldest active membership.
func (r *MandalRepositoryPG) PrimarySlugFor(ctx context.Context, userID string) (string, error) {
	var slug string
	err := r.pool.QueryRow(ctx, `
SELECT m.slug
FROM mandal_users mu
JOIN mandals m ON m.id = mu.mandal_id
WHERE mu.user_id = $1 AND mu.status = 'active'
ORDER BY mu.created_at
LIMIT 1;
`, userID).Scan(&slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotMember
	}
	if err != nil {
		return "", err
	}
	return slug, nil
}
