package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small JSON read-through cache on top of Redis, used by the
// availability read path. All methods are best-effort: a Redis failure never
// fails the caller, it just forces a store read.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection with a short ping.
func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Client exposes the underlying Redis client for other Redis-backed concerns
// that should share the connection, such as event publishing.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

// AvailabilityKey builds the cache key for a provider/date(/service) read.
func AvailabilityKey(providerID, date, serviceID string) string {
	if serviceID == "" {
		return fmt.Sprintf("avail:%s:%s", providerID, date)
	}
	return fmt.Sprintf("avail:%s:%s:%s", providerID, date, serviceID)
}

// Get unmarshals the cached value into dest and reports whether it was found.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores the value under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}

// InvalidateProvider drops every cached availability entry for the provider.
func (c *Cache) InvalidateProvider(ctx context.Context, providerID string) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("avail:%s:*", providerID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}
