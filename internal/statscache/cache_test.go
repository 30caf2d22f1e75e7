package statscache

import (
	"context"
	"testing"
)

func TestDisabledCacheIsSafe(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatalf("nil cache must report disabled")
	}

	c = New(nil, 0)
	if c.Enabled() {
		t.Fatalf("cache without client must report disabled")
	}

	var out map[string]int
	if c.Get(context.Background(), KeyCallStats, &out) {
		t.Fatalf("disabled cache must always miss")
	}
	// No-ops must not panic.
	c.Set(context.Background(), KeyCallStats, map[string]int{"x": 1})
	c.Invalidate(context.Background(), KeyCallStats)
}
