package service

import (
	"context"
	"fmt"

	"rewardbot/models"

	log "github.com/sirupsen/logrus"
)

// SettingsService resolves configuration overrides, falling back to compiled
// defaults. Reads go through the cache; writes store the new value in it once
// the override is committed.
type SettingsService struct {
	runner   *TxRunner
	cache    SettingsCache
	defaults map[models.SettingKey]int64
}

func NewSettingsService(runner *TxRunner, cache SettingsCache, defaults map[models.SettingKey]int64) *SettingsService {
	d := make(map[models.SettingKey]int64, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	return &SettingsService{
		runner:   runner,
		cache:    cache,
		defaults: d,
	}
}

// Get returns the effective value of key
func (s *SettingsService) Get(ctx context.Context, key models.SettingKey) (int64, error) {
	def, known := s.defaults[key]
	if !known {
		return 0, fmt.Errorf("%w: unknown key %s", ErrInvalidSetting, key)
	}

	if value, ok, err := s.cache.Get(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("Settings cache read failed")
	} else if ok {
		return value, nil
	}

	var setting *models.Setting
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		setting, err = uow.SettingsRepository().Get(ctx, key)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load setting %s: %w", key, err)
	}

	value := def
	if setting != nil {
		value = setting.Value
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.WithError(err).WithField("key", key).Warn("Settings cache write failed")
	}
	return value, nil
}

// getOrDefault never fails; lookup errors are logged and the default is used
func (s *SettingsService) getOrDefault(ctx context.Context, key models.SettingKey) int64 {
	value, err := s.Get(ctx, key)
	if err != nil {
		log.WithError(err).WithField("key", key).Error("Falling back to default setting")
		return s.defaults[key]
	}
	return value
}

func (s *SettingsService) ReferralBonus(ctx context.Context) int64 {
	return s.getOrDefault(ctx, models.SettingReferralBonus)
}

func (s *SettingsService) AccountClaimCost(ctx context.Context) int64 {
	return s.getOrDefault(ctx, models.SettingAccountClaimCost)
}

// Set stores an override
func (s *SettingsService) Set(ctx context.Context, key models.SettingKey, value int64, actor string) error {
	if _, known := s.defaults[key]; !known {
		return fmt.Errorf("%w: unknown key %s", ErrInvalidSetting, key)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, key)
	}

	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		return uow.SettingsRepository().Set(ctx, &models.Setting{
			Key:       key,
			Value:     value,
			UpdatedBy: actor,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}

	if err := s.cache.Set(ctx, key, value); err != nil {
		log.WithError(err).WithField("key", key).Warn("Settings cache write failed")
		// a stale cached value must not outlive the override
		if err := s.cache.Delete(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("Settings cache invalidation failed")
		}
	}
	return nil
}

// All returns the effective value of every known setting
func (s *SettingsService) All(ctx context.Context) (map[models.SettingKey]int64, error) {
	out := make(map[models.SettingKey]int64, len(s.defaults))
	for k := range s.defaults {
		v, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
