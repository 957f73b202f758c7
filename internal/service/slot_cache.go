package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const slotCacheKeyPrefix = "availability:"

// RedisSlotCache is a short-TTL read cache for resolved slot lists.
// Cache faults degrade to store reads; they are logged, never surfaced.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSlotCache builds the cache wrapper.
func NewRedisSlotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSlotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSlotCache{client: client, ttl: ttl, logger: logger}
}

func slotCacheKey(date time.Time) string {
	return slotCacheKeyPrefix + date.Format("2006-01-02")
}

// Get returns the cached slot list for a date if present.
func (c *RedisSlotCache) Get(ctx context.Context, date time.Time) ([]string, bool) {
	raw, err := c.client.Get(ctx, slotCacheKey(date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("slot cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.logger.Warn("slot cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return slots, true
}

// Set stores the slot list for a date with the configured TTL.
func (c *RedisSlotCache) Set(ctx context.Context, date time.Time, slots []string) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, slotCacheKey(date), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("slot cache write failed", zap.Error(err))
	}
}

// Delete drops the cached entry for a date.
func (c *RedisSlotCache) Delete(ctx context.Context, date time.Time) {
	if err := c.client.Del(ctx, slotCacheKey(date)).Err(); err != nil {
		c.logger.Warn("slot cache invalidation failed", zap.Error(err))
	}
}
