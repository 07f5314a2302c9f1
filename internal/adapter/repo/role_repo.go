package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandalfund/internal/domain"
)

// RoleRepositoryPG implements domain.RoleRepository using PostgreSQL.
type RoleRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new role repo.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepositoryPG {
	return &RoleRepositoryPG{pool: pool}
}

// RoleFor resolves the role for a user id with a single lookup. A missing
// role row is not an error: it resolves to RoleUnknown, which grants nothing.
func (r *RoleRepositoryPG) RoleFor(ctx context.Context, userID string) (domain.Role, error) {
	var role string
	err := r.pool.QueryRow(ctx, `
SELECT role
FROM user_roles
WHERE id = $1;
`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RoleUnknown, nil
	}
	if err != nil {
		return domain.RoleUnknown, err
	}
	return domain.ParseRole(role), nil
}

// Assign upserts the role row for a user.
func (r *RoleRepositoryPG) Assign(ctx context.Context, userID string, role domain.Role) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO user_roles (id, role)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role;
`, userID, role.String())
	return err
}
