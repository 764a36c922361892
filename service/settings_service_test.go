package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rewardbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var settingDefaults = map[models.SettingKey]int64{
	models.SettingReferralBonus:    4,
	models.SettingAccountClaimCost: 2,
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		cache := new(MockSettingsCache)
		uow := NewMockUnitOfWork()
		svc := NewSettingsService(newTestRunner(uow), cache, settingDefaults)
		cache.On("Get", ctx, models.SettingReferralBonus).Return(int64(7), true, nil)

		assert.Equal(t, int64(7), svc.ReferralBonus(ctx))
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("miss falls back to default and fills cache", func(t *testing.T) {
		cache := new(MockSettingsCache)
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewSettingsService(newTestRunner(uow), cache, settingDefaults)
		cache.On("Get", ctx, models.SettingAccountClaimCost).Return(int64(0), false, nil)
		uow.Settings.On("Get", ctx, models.SettingAccountClaimCost).Return(nil, nil)
		cache.On("Set", ctx, models.SettingAccountClaimCost, int64(2)).Return(nil)

		assert.Equal(t, int64(2), svc.AccountClaimCost(ctx))
		cache.AssertExpectations(t)
	})

	t.Run("stored override", func(t *testing.T) {
		cache := new(MockSettingsCache)
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewSettingsService(newTestRunner(uow), cache, settingDefaults)
		cache.On("Get", ctx, models.SettingReferralBonus).Return(int64(0), false, errors.New("redis down"))
		uow.Settings.On("Get", ctx, models.SettingReferralBonus).Return(&models.Setting{Key: models.SettingReferralBonus, Value: 10}, nil)
		cache.On("Set", ctx, models.SettingReferralBonus, int64(10)).Return(errors.New("redis down"))

		value, err := svc.Get(ctx, models.SettingReferralBonus)

		require.NoError(t, err)
		assert.Equal(t, int64(10), value)
	})

	t.Run("database failure uses default", func(t *testing.T) {
		cache := new(MockSettingsCache)
		uow := NewMockUnitOfWork().ExpectRollback()
		svc := NewSettingsService(newTestRunner(uow), cache, settingDefaults)
		cache.On("Get", ctx, models.SettingReferralBonus).Return(int64(0), false, nil)
		uow.Settings.On("Get", ctx, models.SettingReferralBonus).Return(nil, errors.New("connection reset"))

		assert.Equal(t, int64(4), svc.ReferralBonus(ctx))
	})

	t.Run("unknown key", func(t *testing.T) {
		svc := NewSettingsService(newTestRunner(NewMockUnitOfWork()), new(MockSettingsCache), settingDefaults)
		_, err := svc.Get(ctx, models.SettingKey("nope"))
		assert.ErrorIs(t, err, ErrInvalidSetting)
	})
}

func TestSettingsService_Set(t *testing.T) {
	ctx := context.Background()
	cache := new(MockSettingsCache)
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewSettingsService(newTestRunner(uow), cache, settingDefaults)

	uow.Settings.On("Set", ctx, mock.MatchedBy(func(s *models.Setting) bool {
		return s.Key == models.SettingReferralBonus && s.Value == 6 && s.UpdatedBy == "OWNER1"
	})).Return(nil)
	cache.On("Set", ctx, models.SettingReferralBonus, int64(6)).Return(nil)

	require.NoError(t, svc.Set(ctx, models.SettingReferralBonus, 6, "OWNER1"))
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	assert.ErrorIs(t, svc.Set(ctx, models.SettingReferralBonus, -1, "OWNER1"), ErrInvalidSetting)
	assert.ErrorIs(t, svc.Set(ctx, models.SettingKey("nope"), 1, "OWNER1"), ErrInvalidSetting)
}

func TestSettingsService_Set_ReadYourWrite(t *testing.T) {
	ctx := context.Background()
	cache := newMemorySettingsCache()
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewSettingsService(newTestRunner(uow), cache, settingDefaults)

	// an earlier read left the default in the cache
	require.NoError(t, cache.Set(ctx, models.SettingReferralBonus, 4))
	uow.Settings.On("Set", ctx, mock.Anything).Return(nil)

	require.NoError(t, svc.Set(ctx, models.SettingReferralBonus, 9, "OWNER1"))

	value, err := svc.Get(ctx, models.SettingReferralBonus)
	require.NoError(t, err)
	assert.Equal(t, int64(9), value)
	uow.Settings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestSettingsService_Set_CacheWriteFailureInvalidates(t *testing.T) {
	ctx := context.Background()
	cache := new(MockSettingsCache)
	uow := NewMockUnitOfWork().ExpectCommit()
	svc := NewSettingsService(newTestRunner(uow), cache, settingDefaults)

	uow.Settings.On("Set", ctx, mock.Anything).Return(nil)
	cache.On("Set", ctx, models.SettingAccountClaimCost, int64(3)).Return(errors.New("redis down"))
	cache.On("Delete", ctx, models.SettingAccountClaimCost).Return(nil)

	require.NoError(t, svc.Set(ctx, models.SettingAccountClaimCost, 3, "OWNER1"))
	cache.AssertExpectations(t)
}

type memorySettingsCache struct {
	mu     sync.Mutex
	values map[models.SettingKey]int64
}

func newMemorySettingsCache() *memorySettingsCache {
	return &memorySettingsCache{values: make(map[models.SettingKey]int64)}
}

func (c *memorySettingsCache) Get(_ context.Context, key models.SettingKey) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memorySettingsCache) Set(_ context.Context, key models.SettingKey, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memorySettingsCache) Delete(_ context.Context, key models.SettingKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}
