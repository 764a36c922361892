package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewardbot/database"
	"rewardbot/models"

	"github.com/jackc/pgx/v5"
)

const keyColumns = `code, kind, point_value, claimed, claimed_by, claimed_at, created_by, created_at`

// RedemptionKeyRepository implements service.RedemptionKeyRepository
type RedemptionKeyRepository struct {
	q queryable
}

func NewRedemptionKeyRepository(db *database.DB) *RedemptionKeyRepository {
	return &RedemptionKeyRepository{q: db.Pool}
}

func newRedemptionKeyRepositoryWithTx(tx queryable) *RedemptionKeyRepository {
	return &RedemptionKeyRepository{q: tx}
}

func scanKey(row pgx.Row) (*models.RedemptionKey, error) {
	var k models.RedemptionKey
	if err := row.Scan(
		&k.Code,
		&k.Kind,
		&k.PointValue,
		&k.Claimed,
		&k.ClaimedBy,
		&k.ClaimedAt,
		&k.CreatedBy,
		&k.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &k, nil
}

// Insert stores the key unless the code is taken
func (r *RedemptionKeyRepository) Insert(ctx context.Context, key *models.RedemptionKey) (bool, error) {
	query := `
		INSERT INTO redemption_keys (code, kind, point_value, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, key.Code, key.Kind, key.PointValue, key.CreatedBy).Scan(&key.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert key: %w", classify(err))
	}
	return true, nil
}

// Claim is a single conditional update, so of any number of concurrent
// callers exactly one gets the key back
func (r *RedemptionKeyRepository) Claim(ctx context.Context, code, claimant string, at time.Time) (*models.RedemptionKey, error) {
	query := `
		UPDATE redemption_keys
		SET claimed = TRUE, claimed_by = $2, claimed_at = $3
		WHERE code = $1 AND NOT claimed
		RETURNING ` + keyColumns

	key, err := scanKey(r.q.QueryRow(ctx, query, code, claimant, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim key: %w", classify(err))
	}
	return key, nil
}

func (r *RedemptionKeyRepository) GetByCode(ctx context.Context, code string) (*models.RedemptionKey, error) {
	query := `SELECT ` + keyColumns + ` FROM redemption_keys WHERE code = $1`

	key, err := scanKey(r.q.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", classify(err))
	}
	return key, nil
}

func (r *RedemptionKeyRepository) ListUnclaimed(ctx context.Context, kind models.KeyKind, limit int) ([]*models.RedemptionKey, error) {
	query := `
		SELECT ` + keyColumns + `
		FROM redemption_keys
		WHERE kind = $1 AND NOT claimed
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unclaimed keys: %w", classify(err))
	}
	defer rows.Close()

	var keys []*models.RedemptionKey
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keys: %w", err)
	}
	return keys, nil
}
