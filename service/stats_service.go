package service

import (
	"context"
	"fmt"

	"rewardbot/models"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 50
)

// StatsService serves read-only aggregates
type StatsService struct {
	runner *TxRunner
}

func NewStatsService(runner *TxRunner) *StatsService {
	return &StatsService{runner: runner}
}

// Leaderboard returns the top balances
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	limit = min(limit, MaxLeaderboardSize)

	var entries []*models.LeaderboardEntry
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.StatsRepository().Leaderboard(ctx, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return entries, nil
}

// Dashboard returns totals for administrators
func (s *StatsService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var dashboard *models.Dashboard
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		dashboard, err = uow.StatsRepository().Dashboard(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return dashboard, nil
}
