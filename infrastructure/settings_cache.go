package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rewardbot/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const settingsKeyPrefix = "rewardbot:setting:"

// RedisSettingsCache implements service.SettingsCache on Redis, so every
// bot process sees an override as soon as the writer invalidates it
type RedisSettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// ConnectRedis opens and pings a client for the given URL
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.WithField("addr", opts.Addr).Info("Connected to Redis")
	return client, nil
}

func NewRedisSettingsCache(client *redis.Client, ttl time.Duration) *RedisSettingsCache {
	return &RedisSettingsCache{client: client, ttl: ttl}
}

func (c *RedisSettingsCache) Get(ctx context.Context, key models.SettingKey) (int64, bool, error) {
	raw, err := c.client.Get(ctx, settingsKeyPrefix+string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cached setting %s: %w", key, err)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached setting %s: %w", key, err)
	}
	return value, true, nil
}

func (c *RedisSettingsCache) Set(ctx context.Context, key models.SettingKey, value int64) error {
	if err := c.client.Set(ctx, settingsKeyPrefix+string(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache setting %s: %w", key, err)
	}
	return nil
}

func (c *RedisSettingsCache) Delete(ctx context.Context, key models.SettingKey) error {
	if err := c.client.Del(ctx, settingsKeyPrefix+string(key)).Err(); err != nil {
		return fmt.Errorf("failed to evict setting %s: %w", key, err)
	}
	return nil
}

// NoopSettingsCache never holds anything. Used when REDIS_URL is unset.
type NoopSettingsCache struct{}

func (NoopSettingsCache) Get(context.Context, models.SettingKey) (int64, bool, error) {
	return 0, false, nil
}

func (NoopSettingsCache) Set(context.Context, models.SettingKey, int64) error { return nil }

func (NoopSettingsCache) Delete(context.Context, models.SettingKey) error { return nil }
