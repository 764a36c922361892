package repository

import (
	"context"
	"errors"
	"fmt"

	"rewardbot/database"
	"rewardbot/models"

	"github.com/jackc/pgx/v5"
)

// ReferralRepository implements service.ReferralRepository
type ReferralRepository struct {
	q queryable
}

func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

func newReferralRepositoryWithTx(tx queryable) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

// Insert records the edge unless one exists for the referred identity
func (r *ReferralRepository) Insert(ctx context.Context, edge *models.ReferralEdge) (bool, error) {
	query := `
		INSERT INTO referrals (referrer_identity, referred_identity, bonus)
		VALUES ($1, $2, $3)
		ON CONFLICT (referred_identity) DO NOTHING
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, edge.ReferrerIdentity, edge.ReferredIdentity, edge.Bonus).
		Scan(&edge.ID, &edge.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert referral of %s: %w", edge.ReferredIdentity, classify(err))
	}
	return true, nil
}

func (r *ReferralRepository) GetByReferred(ctx context.Context, referredIdentity string) (*models.ReferralEdge, error) {
	query := `
		SELECT id, referrer_identity, referred_identity, bonus, created_at
		FROM referrals
		WHERE referred_identity = $1
	`

	var e models.ReferralEdge
	err := r.q.QueryRow(ctx, query, referredIdentity).
		Scan(&e.ID, &e.ReferrerIdentity, &e.ReferredIdentity, &e.Bonus, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get referral of %s: %w", referredIdentity, classify(err))
	}
	return &e, nil
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerIdentity string, limit int) ([]*models.ReferralEdge, error) {
	query := `
		SELECT id, referrer_identity, referred_identity, bonus, created_at
		FROM referrals
		WHERE referrer_identity = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, referrerIdentity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals of %s: %w", referrerIdentity, classify(err))
	}
	edges, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.ReferralEdge])
	if err != nil {
		return nil, fmt.Errorf("failed to scan referrals: %w", err)
	}
	return edges, nil
}
