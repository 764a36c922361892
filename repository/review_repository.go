package repository

import (
	"context"
	"fmt"

	"rewardbot/database"
	"rewardbot/models"

	"github.com/jackc/pgx/v5"
)

// ReviewRepository implements service.ReviewRepository
type ReviewRepository struct {
	q queryable
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{q: db.Pool}
}

func newReviewRepositoryWithTx(tx queryable) *ReviewRepository {
	return &ReviewRepository{q: tx}
}

func (r *ReviewRepository) Insert(ctx context.Context, identity, body string) (*models.Review, error) {
	query := `
		INSERT INTO reviews (identity, body)
		VALUES ($1, $2)
		RETURNING id, identity, body, created_at
	`

	var review models.Review
	err := r.q.QueryRow(ctx, query, identity, body).
		Scan(&review.ID, &review.Identity, &review.Body, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", classify(err))
	}
	return &review, nil
}

func (r *ReviewRepository) ListRecent(ctx context.Context, limit int) ([]*models.Review, error) {
	query := `
		SELECT id, identity, body, created_at
		FROM reviews
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", classify(err))
	}
	reviews, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.Review])
	if err != nil {
		return nil, fmt.Errorf("failed to scan reviews: %w", err)
	}
	return reviews, nil
}
