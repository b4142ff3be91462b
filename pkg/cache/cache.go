// Package cache stores rendered row images.
//
// # Overview
//
// Rows are content-addressed. A [DirKey] hashes everything that affects
// every row (geometry, palette, style) and a [FileKey] hashes one row
// signature. Because both are derived from canonical JSON, structurally
// equal keys hash identically no matter how they were built, and a change
// of palette or geometry simply lands in a fresh directory.
//
//	~/.cache/lanegraph/<dir hash>/<file hash>.png
//
// # Backends
//
//   - [FileCache]: one file per entry on local disk; the default.
//   - [RedisCache]: a shared Redis instance.
//   - [NullCache]: stores nothing; used when caching is bypassed.
//
// [RowCache] sits in front of a backend and implements the read-through
// policy: a miss renders and writes back, and any backend failure is
// logged and treated as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store keyed by strings.
//
// Get reports a miss as (nil, false, nil); an error means the backend could
// not answer. A ttl of zero stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
