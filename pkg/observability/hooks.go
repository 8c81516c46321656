// Package observability lets the engine and host packages report events
// without depending on a metrics backend.
//
// Each event category has a hooks interface with a no-op default. Callers
// fetch the current implementation at the event site:
//
//	observability.Frame().OnFrame(visible, settled, time.Since(start))
//
// A binary that wants metrics installs a backend once at startup, before
// any engine work begins. internal/metrics provides the Prometheus one:
//
//	metrics.New(prometheus.DefaultRegisterer).Install()
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	// OnLayout records one layout run over visible nodes, including the
	// collision passes it needed and how many pairs they moved.
	OnLayout(visible, passes, adjustments int, duration time.Duration)
}

// FrameHooks receives events from the animation loop.
type FrameHooks interface {
	// OnFrame records one advanced and drawn frame.
	OnFrame(visible int, settled bool, duration time.Duration)
}

// SourceHooks receives events from data source loads.
type SourceHooks interface {
	OnLoadStart(ctx context.Context, kind string)
	OnLoadComplete(ctx context.Context, kind string, folders, files int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// keyType is "source" or "artifact".
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// RenderHooks receives events from headless rendering.
type RenderHooks interface {
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// Noop implementations, installed until a backend replaces them.

type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayout(int, int, int, time.Duration) {}

type NoopFrameHooks struct{}

func (NoopFrameHooks) OnFrame(int, bool, time.Duration) {}

type NoopSourceHooks struct{}

func (NoopSourceHooks) OnLoadStart(context.Context, string)                                    {}
func (NoopSourceHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// slot holds the current implementation of one hooks interface.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{cur: noop, noop: noop} }

// set installs h, ignoring a nil interface.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) reset() { s.set(s.noop) }

var (
	layoutSlot = newSlot[LayoutHooks](NoopLayoutHooks{})
	frameSlot  = newSlot[FrameHooks](NoopFrameHooks{})
	sourceSlot = newSlot[SourceHooks](NoopSourceHooks{})
	cacheSlot  = newSlot[CacheHooks](NoopCacheHooks{})
	renderSlot = newSlot[RenderHooks](NoopRenderHooks{})
)

func SetLayoutHooks(h LayoutHooks) { layoutSlot.set(h) }
func SetFrameHooks(h FrameHooks)   { frameSlot.set(h) }
func SetSourceHooks(h SourceHooks) { sourceSlot.set(h) }
func SetCacheHooks(h CacheHooks)   { cacheSlot.set(h) }
func SetRenderHooks(h RenderHooks) { renderSlot.set(h) }

// Layout returns the installed layout hooks.
func Layout() LayoutHooks { return layoutSlot.get() }

// Frame returns the installed frame hooks.
func Frame() FrameHooks { return frameSlot.get() }

// Source returns the installed source hooks.
func Source() SourceHooks { return sourceSlot.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// Render returns the installed render hooks.
func Render() RenderHooks { return renderSlot.get() }

// Reset reinstalls every no-op default. Tests that install hooks call it
// from t.Cleanup.
func Reset() {
	layoutSlot.reset()
	frameSlot.reset()
	sourceSlot.reset()
	cacheSlot.reset()
	renderSlot.reset()
}
