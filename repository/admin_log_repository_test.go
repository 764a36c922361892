package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rewardbot/events"
	"rewardbot/models"
	"rewardbot/repository/testutil"
	"rewardbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogRepository_List(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAdminLogRepository(testDB.DB)
	ctx := context.Background()

	for i := range 5 {
		actor := "OWNER1"
		if i%2 == 1 {
			actor = "ADMIN1"
		}
		_, err := repo.Append(ctx, actor, fmt.Sprintf("action %d", i))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, models.AdminLogFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].ID, all[i-1].ID)
	}

	page, err := repo.List(ctx, models.AdminLogFilter{}, all[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "action 2", page[0].Action)

	owner, err := repo.List(ctx, models.AdminLogFilter{Actor: "OWNER1"}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, owner, 3)

	future, err := repo.List(ctx, models.AdminLogFilter{Since: time.Now().Add(time.Hour)}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestAdminLogService_QueryPages(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	runner := service.NewTxRunner(NewUnitOfWorkFactory(testDB.DB, events.NewBus()), 5, 5*time.Millisecond)
	adminLog := service.NewAdminLogService(runner)

	for i := range 7 {
		adminLog.Append(ctx, "OWNER1", fmt.Sprintf("lend %d", i))
	}

	var actions []string
	for entry, err := range adminLog.Query(ctx, models.AdminLogFilter{PageSize: 3}) {
		require.NoError(t, err)
		actions = append(actions, entry.Action)
	}
	require.Len(t, actions, 7)
	assert.Equal(t, "lend 0", actions[0])
	assert.Equal(t, "lend 6", actions[6])

	recent, err := adminLog.Recent(ctx, models.AdminLogFilter{}, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"lend 6", "lend 5", "lend 4"}, []string{recent[0].Action, recent[1].Action, recent[2].Action})
}

func TestAdminLogRepository_ListRecent(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAdminLogRepository(testDB.DB)
	ctx := context.Background()

	var ids []int64
	for i := range 30 {
		actor := "OWNER1"
		if i%3 == 0 {
			actor = "ADMIN1"
		}
		entry, err := repo.Append(ctx, actor, fmt.Sprintf("action %d", i))
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	latest, err := repo.ListRecent(ctx, models.AdminLogFilter{}, 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, []int64{ids[29], ids[28], ids[27]}, []int64{latest[0].ID, latest[1].ID, latest[2].ID})

	admin, err := repo.ListRecent(ctx, models.AdminLogFilter{Actor: "ADMIN1"}, 2)
	require.NoError(t, err)
	require.Len(t, admin, 2)
	assert.Equal(t, "action 27", admin[0].Action)
	assert.Equal(t, "action 24", admin[1].Action)

	future, err := repo.ListRecent(ctx, models.AdminLogFilter{Since: time.Now().Add(time.Hour)}, 3)
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestAdminGrantAndSettingsRepositories(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	grants := NewAdminGrantRepository(testDB.DB)
	settings := NewSettingsRepository(testDB.DB)

	t.Run("grant lifecycle", func(t *testing.T) {
		grant := &models.AdminGrant{Identity: "A1", DisplayName: "mod", Role: models.RoleAdmin, GrantedBy: "OWNER1"}
		require.NoError(t, grants.Upsert(ctx, grant))

		found, err := grants.SetBanned(ctx, "A1", true)
		require.NoError(t, err)
		assert.True(t, found)

		stored, err := grants.GetByIdentity(ctx, "A1")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, stored.Banned)

		grant.Role = models.RoleOwner
		require.NoError(t, grants.Upsert(ctx, grant))
		stored, err = grants.GetByIdentity(ctx, "A1")
		require.NoError(t, err)
		assert.False(t, stored.Banned, "re-granting lifts the ban")
		assert.Equal(t, models.RoleOwner, stored.Role)

		list, err := grants.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		deleted, err := grants.Delete(ctx, "A1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = grants.Delete(ctx, "A1")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("settings upsert", func(t *testing.T) {
		missing, err := settings.Get(ctx, models.SettingReferralBonus)
		require.NoError(t, err)
		assert.Nil(t, missing)

		require.NoError(t, settings.Set(ctx, &models.Setting{Key: models.SettingReferralBonus, Value: 4, UpdatedBy: "OWNER1"}))
		require.NoError(t, settings.Set(ctx, &models.Setting{Key: models.SettingReferralBonus, Value: 7, UpdatedBy: "OWNER1"}))

		stored, err := settings.Get(ctx, models.SettingReferralBonus)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(7), stored.Value)

		all, err := settings.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
