package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key before passing it to an inner cache. Row
// caches use it to confine themselves to the directory of one
// configuration.
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps inner so that key k is stored as prefix+k.
func NewScopedCache(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Prefix returns the scope prefix.
func (c *ScopedCache) Prefix() string { return c.prefix }

func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the inner cache.
func (c *ScopedCache) Close() error { return c.inner.Close() }

var _ Cache = (*ScopedCache)(nil)
