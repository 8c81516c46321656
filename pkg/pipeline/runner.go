package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/source"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run executes the complete load → build → settle → render pipeline.
func (r *Runner) Run(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	opts.stage("loading")
	loadStart := time.Now()
	folder, files, err := source.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	if data, err := json.Marshal(source.Snapshot{Root: folder, Files: files}); err == nil {
		result.InputHash = cache.Hash(data)
	}

	// Stage 2: Build
	root := Build(folder, files, opts.Expand)
	stats := tree.Count(root)
	result.Root = root
	result.Stats.Folders = stats.Folders
	result.Stats.Files = stats.Files
	result.Stats.Dropped = len(files) - stats.Files
	result.Stats.Visible = tree.CountVisible(root)

	r.Logger.Info("loaded records",
		"source", src.Kind(),
		"folders", stats.Folders,
		"files", stats.Files,
		"duration", result.Stats.LoadTime)
	if result.Stats.Dropped > 0 {
		r.Logger.Warn("files outside every folder were dropped", "count", result.Stats.Dropped)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3 + 4: Settle and Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result, opts)
	observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart) - result.Stats.LayoutTime

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"frames", result.Stats.Frames,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo settles result.Root and renders every format, serving
// artifacts from the cache when all of them are present. The settle stage
// is skipped on a full cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Cache()
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts(format))
	}

	if !opts.Refresh && result.InputHash != "" {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keys[format])
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, "artifact")
				break
			}
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	opts.stage("settling")
	layoutStart := time.Now()
	settled := Settle(result.Root, opts)
	result.View = settled.View
	result.Stats.Frames = settled.Frames
	result.Stats.Settled = settled.Settled
	result.Stats.LayoutTime = time.Since(layoutStart)
	if !settled.Settled {
		r.Logger.Warn("animation did not settle, snapped to targets", "frames", settled.Frames)
	}
	r.Logger.Debug("settled layout",
		"visible", result.Stats.Visible,
		"frames", settled.Frames,
		"passes", settled.Layout.Passes,
		"adjustments", settled.Layout.Adjustments,
		"duration", result.Stats.LayoutTime)

	opts.stage("rendering")
	rendered, err := Render(ctx, result.Root, settled, opts)
	if err != nil {
		return nil, false, err
	}

	if result.InputHash != "" {
		for format, data := range rendered {
			if err := r.Cache.Set(ctx, keys[format], data, DefaultArtifactTTL); err == nil {
				hooks.OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
