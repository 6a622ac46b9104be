// Package cache keeps booked ranges per product in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "prokat:ranges:"

// RangeCache stores the booked range strings of a product. A nil client or a zero TTL disables it.
type RangeCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRangeCache(client *redis.Client, ttl time.Duration) *RangeCache {
	return &RangeCache{redis: client, ttl: ttl}
}

func key(productID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, productID)
}

// Enabled reports whether the cache is backed by Redis.
func (c *RangeCache) Enabled() bool {
	return c != nil && c.redis != nil && c.ttl > 0
}

// Get returns the cached ranges. ok is false on a miss, a disabled cache or an unreadable entry.
func (c *RangeCache) Get(ctx context.Context, productID int64) (ranges []string, ok bool, err error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	val, err := c.redis.Get(ctx, key(productID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &ranges); err != nil {
		return nil, false, nil
	}
	return ranges, true, nil
}

// Set stores ranges for the configured TTL.
func (c *RangeCache) Set(ctx context.Context, productID int64, ranges []string) error {
	if !c.Enabled() {
		return nil
	}
	if ranges == nil {
		ranges = []string{}
	}
	data, err := json.Marshal(ranges)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, key(productID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached ranges of a product.
func (c *RangeCache) Invalidate(ctx context.Context, productID int64) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.redis.Del(ctx, key(productID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the Redis connection; a disabled cache is always healthy.
func (c *RangeCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}
