// Package cache stores source snapshots and rendered artifacts between
// runs.
//
// Two implementations are provided: [FileCache] keeps JSON-enveloped
// entries under a directory (the CLI uses $XDG_CACHE_HOME/mindmap), and
// [NullCache] never stores anything (--no-cache). Keys come from a [Keyer]
// so that every input affecting an entry is hashed into its key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// NullCache misses on every Get and drops every Set. The CLI uses it for
// --no-cache, and it stands in when a caller passes a nil Cache.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

// Get implements [Cache]; it always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements [Cache].
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete implements [Cache].
func (NullCache) Delete(context.Context, string) error { return nil }

// Close implements [Cache].
func (NullCache) Close() error { return nil }
