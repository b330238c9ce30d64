package cache

import (
	"context"
	"time"
)

// cappedTTL limits the lifetime of every entry written through it.
type cappedTTL struct {
	Cache
	max time.Duration
}

// WithMaxTTL wraps c so that no entry outlives max. Entries written without
// a TTL get max. A non-positive max returns c unchanged.
func WithMaxTTL(c Cache, max time.Duration) Cache {
	if max <= 0 {
		return c
	}
	return &cappedTTL{Cache: c, max: max}
}

func (c *cappedTTL) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > c.max {
		ttl = c.max
	}
	return c.Cache.Set(ctx, key, data, ttl)
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *cappedTTL) Clear(ctx context.Context) (int, error) {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}
