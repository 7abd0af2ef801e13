// Package cache stores computed layouts so that repeated requests for the
// same graph and options skip the engines.
//
// Four backends share the [Cache] interface:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps JSON entries under a directory, for the CLI
//   - [RedisCache] and [MongoCache] serve the HTTP service
//
// [Compressed] wraps any backend and snappy-encodes payloads.
//
// Keys are produced by a [Keyer] from content hashes, so a key changes
// whenever the graph or the options change:
//
//	key := keyer.LayoutKey(cache.Hash(graphJSON), cache.Hash(optionsJSON))
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long computed layouts are kept.
const TTLLayout = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// failed, and callers treat it as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
