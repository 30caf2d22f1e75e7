// Package statscache is a best-effort Redis read-through cache for the
// dashboard stats endpoint. The JSON files stay authoritative; a cache miss
// or an unconfigured Redis just means recomputing from disk.
package statscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const KeyCallStats = "autodialer:call_stats"

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a cache over rdb. A nil client yields a disabled cache whose
// methods are all no-ops, so call sites need no nil checks.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// Get unmarshals the cached value into dst. Returns false on miss, decode
// failure, or any Redis error.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// Set stores v under key with the cache TTL. Failures are ignored.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, data, c.ttl)
}

// Invalidate drops keys after a mutation. Failures are ignored; the TTL
// bounds staleness either way.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
