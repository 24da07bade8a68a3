package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Cache stores built report view models in Redis. A nil *Cache is a no-op,
// so the service works without Redis in tests and small deployments.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a Redis client for report caching.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func cachePrefix(scope tenant.Scope) string {
	return fmt.Sprintf("reports:%d:%s:%d:", scope.CompanyID, scope.OwnerType, scope.OwnerID)
}

func cacheKey(scope tenant.Scope, report string, asOf time.Time) string {
	return cachePrefix(scope) + report + ":" + asOf.Format("2006-01-02")
}

// Get loads a cached report into dest. A miss or decode failure reads as
// absent.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a report under the key. Failures are swallowed; the cache is
// an accelerator, not a dependency.
func (c *Cache) Set(ctx context.Context, key string, val any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}

// Bust drops every cached report for the tenant. Called after any voucher
// write.
func (c *Cache) Bust(ctx context.Context, scope tenant.Scope) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, cachePrefix(scope)+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}
