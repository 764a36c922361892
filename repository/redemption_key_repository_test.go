package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"rewardbot/events"
	"rewardbot/models"
	"rewardbot/repository/testutil"
	"rewardbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedemptionKeyRepository_InsertAndClaim(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRedemptionKeyRepository(testDB.DB)
	ctx := context.Background()

	inserted, err := repo.Insert(ctx, testutil.NewKey("NKEY-ABCDEFGHIJ", models.KeyKindStandard, 15, "owner"))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, testutil.NewKey("NKEY-ABCDEFGHIJ", models.KeyKindPremium, 35, "owner"))
	require.NoError(t, err)
	assert.False(t, inserted, "codes are unique")

	unclaimed, err := repo.ListUnclaimed(ctx, models.KeyKindStandard, 10)
	require.NoError(t, err)
	require.Len(t, unclaimed, 1)

	key, err := repo.Claim(ctx, "NKEY-ABCDEFGHIJ", "U1", time.Now())
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.True(t, key.Claimed)
	assert.Equal(t, "U1", *key.ClaimedBy)
	assert.Equal(t, int64(15), key.PointValue)

	again, err := repo.Claim(ctx, "NKEY-ABCDEFGHIJ", "U2", time.Now())
	require.NoError(t, err)
	assert.Nil(t, again)

	missing, err := repo.Claim(ctx, "NKEY-ZZZZZZZZZZ", "U2", time.Now())
	require.NoError(t, err)
	assert.Nil(t, missing)

	unclaimed, err = repo.ListUnclaimed(ctx, models.KeyKindStandard, 10)
	require.NoError(t, err)
	assert.Empty(t, unclaimed)
}

func TestRedemption_ConcurrentClaimsYieldOneWinner(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	const claimants = 10

	runner := service.NewTxRunner(NewUnitOfWorkFactory(testDB.DB, events.NewBus()), 5, 5*time.Millisecond)
	accounts := service.NewAccountService(runner, 20)
	redemption := service.NewRedemptionService(runner, map[models.KeyKind]int64{models.KeyKindStandard: 15})

	identities := make([]string, claimants)
	for i := range claimants {
		identities[i] = string(rune('A' + i))
		_, _, err := accounts.CreateIfAbsent(ctx, service.NewAccount{Identity: identities[i]})
		require.NoError(t, err)
	}

	code, err := redemption.Generate(ctx, models.KeyKindStandard, "owner")
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes []models.ClaimOutcome
	)
	for _, identity := range identities {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := redemption.Claim(ctx, code, identity)
			assert.NoError(t, err)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}()
	}
	wg.Wait()

	claimed := 0
	for _, o := range outcomes {
		switch o.Status {
		case models.ClaimStatusClaimed:
			claimed++
			assert.Equal(t, int64(35), o.NewBalance)
		default:
			assert.Equal(t, models.ClaimStatusAlreadyClaimed, o.Status)
		}
	}
	assert.Equal(t, 1, claimed)

	dashboard, err := service.NewStatsService(runner).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(claimants*20+15), dashboard.TotalPoints)
	assert.Equal(t, int64(1), dashboard.ClaimedKeys)
}
