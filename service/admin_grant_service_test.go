package service

import (
	"context"
	"testing"

	"rewardbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminGrantService_Grant(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewAdminGrantService(newTestRunner(uow))

	uow.Grants.On("Upsert", ctx, mock.MatchedBy(func(g *models.AdminGrant) bool {
		return g.Identity == "U5" && g.Role == models.RoleAdmin && g.GrantedBy == "OWNER1" && !g.Banned
	})).Return(nil)

	require.NoError(t, svc.Grant(ctx, "U5", "mod", models.RoleAdmin, "OWNER1"))
	assert.Error(t, svc.Grant(ctx, "U5", "mod", models.RoleNone, "OWNER1"))
	uow.Grants.AssertExpectations(t)
}

func TestAdminGrantService_RevokeMissing(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewAdminGrantService(newTestRunner(uow))

	uow.Grants.On("Delete", ctx, "U5").Return(false, nil)
	uow.Grants.On("SetBanned", ctx, "U5", true).Return(false, nil)

	assert.ErrorIs(t, svc.Revoke(ctx, "U5"), ErrGrantNotFound)
	assert.ErrorIs(t, svc.SetBanned(ctx, "U5", true), ErrGrantNotFound)
}

func TestStatsService_LeaderboardClampsLimit(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork().ExpectRollback()
	svc := NewStatsService(newTestRunner(uow))

	uow.Stats.On("Leaderboard", ctx, DefaultLeaderboardSize).Return([]*models.LeaderboardEntry{{Rank: 1, Identity: "U1"}}, nil)
	uow.Stats.On("Leaderboard", ctx, MaxLeaderboardSize).Return([]*models.LeaderboardEntry{}, nil)

	entries, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = svc.Leaderboard(ctx, 1000)
	require.NoError(t, err)
	uow.Stats.AssertExpectations(t)
}
