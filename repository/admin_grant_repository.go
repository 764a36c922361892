package repository

import (
	"context"
	"errors"
	"fmt"

	"rewardbot/database"
	"rewardbot/models"

	"github.com/jackc/pgx/v5"
)

// AdminGrantRepository implements service.AdminGrantRepository
type AdminGrantRepository struct {
	q queryable
}

func NewAdminGrantRepository(db *database.DB) *AdminGrantRepository {
	return &AdminGrantRepository{q: db.Pool}
}

func newAdminGrantRepositoryWithTx(tx queryable) *AdminGrantRepository {
	return &AdminGrantRepository{q: tx}
}

func (r *AdminGrantRepository) GetByIdentity(ctx context.Context, identity string) (*models.AdminGrant, error) {
	query := `
		SELECT identity, display_name, role, banned, granted_by, created_at, updated_at
		FROM admin_grants
		WHERE identity = $1
	`

	var g models.AdminGrant
	err := r.q.QueryRow(ctx, query, identity).
		Scan(&g.Identity, &g.DisplayName, &g.Role, &g.Banned, &g.GrantedBy, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin grant of %s: %w", identity, classify(err))
	}
	return &g, nil
}

// Upsert creates or replaces a grant. Replacing lifts a ban.
func (r *AdminGrantRepository) Upsert(ctx context.Context, grant *models.AdminGrant) error {
	query := `
		INSERT INTO admin_grants (identity, display_name, role, banned, granted_by)
		VALUES ($1, $2, $3, FALSE, $4)
		ON CONFLICT (identity) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			banned = FALSE,
			granted_by = EXCLUDED.granted_by,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, grant.Identity, grant.DisplayName, grant.Role, grant.GrantedBy).
		Scan(&grant.CreatedAt, &grant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert admin grant of %s: %w", grant.Identity, classify(err))
	}
	grant.Banned = false
	return nil
}

func (r *AdminGrantRepository) Delete(ctx context.Context, identity string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM admin_grants WHERE identity = $1`, identity)
	if err != nil {
		return false, fmt.Errorf("failed to delete admin grant of %s: %w", identity, classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AdminGrantRepository) SetBanned(ctx context.Context, identity string, banned bool) (bool, error) {
	query := `UPDATE admin_grants SET banned = $2, updated_at = NOW() WHERE identity = $1`

	tag, err := r.q.Exec(ctx, query, identity, banned)
	if err != nil {
		return false, fmt.Errorf("failed to update admin grant of %s: %w", identity, classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AdminGrantRepository) List(ctx context.Context) ([]*models.AdminGrant, error) {
	query := `
		SELECT identity, display_name, role, banned, granted_by, created_at, updated_at
		FROM admin_grants
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin grants: %w", classify(err))
	}
	grants, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.AdminGrant])
	if err != nil {
		return nil, fmt.Errorf("failed to scan admin grants: %w", err)
	}
	return grants, nil
}
