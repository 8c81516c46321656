package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// DefaultSnapshotTTL is how long a cached snapshot stays valid.
const DefaultSnapshotTTL = 10 * time.Minute

// CachedOptions configures [NewCached].
type CachedOptions struct {
	Keyer cache.Keyer
	// TTL defaults to DefaultSnapshotTTL.
	TTL time.Duration
	// Key holds the source settings that are part of the cache key.
	Key cache.SourceKeyOpts
	// Refresh skips the lookup but still stores the fresh snapshot.
	Refresh bool
}

// Cached serves snapshots of another source from a cache.
type Cached struct {
	src   Source
	cache cache.Cache
	opts  CachedOptions
}

// NewCached wraps src. A nil cache behaves like [cache.NullCache].
func NewCached(src Source, c cache.Cache, opts CachedOptions) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultSnapshotTTL
	}
	return &Cached{src: src, cache: c, opts: opts}
}

// Kind implements [Source].
func (s *Cached) Kind() string { return s.src.Kind() }

// Location implements [Source].
func (s *Cached) Location() string { return s.src.Location() }

// Key returns the cache key of the wrapped source.
func (s *Cached) Key() string {
	return s.opts.Keyer.SourceKey(s.src.Kind(), s.src.Location(), s.opts.Key)
}

// Load implements [Source]. Cache failures fall back to the wrapped source.
func (s *Cached) Load(ctx context.Context) (tree.Folder, []tree.File, error) {
	hooks := observability.Cache()
	key := s.Key()

	if !s.opts.Refresh {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			if snap, err := ParseSnapshot(data); err == nil {
				hooks.OnCacheHit(ctx, "source")
				return snap.Root, snap.Files, nil
			}
		}
		hooks.OnCacheMiss(ctx, "source")
	}

	root, files, err := s.src.Load(ctx)
	if err != nil {
		return tree.Folder{}, nil, err
	}
	if data, err := json.Marshal(Snapshot{Root: root, Files: files}); err == nil {
		if err := s.cache.Set(ctx, key, data, s.opts.TTL); err == nil {
			hooks.OnCacheSet(ctx, "source", len(data))
		}
	}
	return root, files, nil
}
