package repository

import (
	"context"
	"fmt"

	"rewardbot/database"
	"rewardbot/models"
)

// StatsRepository implements service.StatsRepository
type StatsRepository struct {
	q queryable
}

func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{q: db.Pool}
}

func newStatsRepositoryWithTx(tx queryable) *StatsRepository {
	return &StatsRepository{q: tx}
}

// Leaderboard ranks non-banned accounts by balance, oldest first on ties
func (r *StatsRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT identity, display_name, balance, referral_count
		FROM accounts
		WHERE NOT banned
		ORDER BY balance DESC, joined_at
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", classify(err))
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		e := &models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.Identity, &e.DisplayName, &e.Balance, &e.ReferralCount); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}

func (r *StatsRepository) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM accounts WHERE banned),
			(SELECT COALESCE(SUM(balance), 0)::BIGINT FROM accounts),
			(SELECT COUNT(*) FROM redemption_keys WHERE NOT claimed),
			(SELECT COUNT(*) FROM redemption_keys WHERE claimed),
			(SELECT COUNT(*) FROM referrals)
	`

	var d models.Dashboard
	err := r.q.QueryRow(ctx, query).Scan(
		&d.TotalAccounts,
		&d.BannedAccounts,
		&d.TotalPoints,
		&d.PendingKeys,
		&d.ClaimedKeys,
		&d.Referrals,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", classify(err))
	}
	return &d, nil
}
