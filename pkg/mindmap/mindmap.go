// Package mindmap wires the tree builder, layout engine, render loop and
// interaction controller into one component a host can embed.
//
// The host supplies a drawing [render.Surface], a per-frame
// [render.Scheduler] and the raw event stream; the component draws itself
// and reports file clicks through a [interact.Navigator].
//
//	m := mindmap.New(surface, scheduler, mindmap.Options{Width: 800, Height: 600})
//	m.Load(rootFolder, files)
//	m.PointerMove(x, y)
//	...
//	m.Close()
//
// Everything runs on the host's single control flow; the component starts
// no goroutines.
package mindmap

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/interact"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Options configures a Map.
type Options struct {
	// Width and Height are the initial viewport size in screen pixels.
	Width, Height float64

	// Theme defaults to render.DefaultTheme when its palette is empty.
	Theme render.Theme
	// Layout options are passed to every layout run.
	Layout []layout.Option

	// Lerp and SettleThreshold tune the animation; zero means default.
	Lerp            float64
	SettleThreshold float64
	// Live keeps the loop scheduling frames while settled.
	Live bool

	// ExpandDepth expands folders above this depth on every load. Zero
	// shows the root's children only; negative expands everything.
	ExpandDepth int

	// Navigator receives file clicks. May be nil.
	Navigator interact.Navigator
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Map is the mind map component.
type Map struct {
	opts   Options
	logger *log.Logger

	ctrl *interact.Controller
	loop *render.Loop

	loads  int
	closed bool
}

// New creates an empty map drawing into s. Nothing is drawn until Load.
func New(s render.Surface, sched render.Scheduler, opts Options) *Map {
	if len(opts.Theme.Palette) == 0 {
		opts.Theme = render.DefaultTheme()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := &Map{opts: opts, logger: logger}
	m.ctrl = interact.New(nil, opts.Width, opts.Height,
		interact.WithTheme(opts.Theme),
		interact.WithMeasurer(s),
		interact.WithNavigator(opts.Navigator),
		interact.WithLayout(opts.Layout...),
	)

	loopOpts := []render.LoopOption{
		render.WithTheme(opts.Theme),
		render.WithView(m.ctrl.View),
		render.WithLive(opts.Live),
	}
	if opts.Lerp != 0 {
		loopOpts = append(loopOpts, render.WithLerp(opts.Lerp))
	}
	if opts.SettleThreshold != 0 {
		loopOpts = append(loopOpts, render.WithSettleThreshold(opts.SettleThreshold))
	}
	m.loop = render.NewLoop(s, sched, loopOpts...)
	return m
}

// Load discards the current tree and builds a new one from fresh source
// data. The new tree starts in its default state: folders expanded down to
// Options.ExpandDepth and every node at (0, 0). It is laid out around the
// viewport center and animates out from the origin.
func (m *Map) Load(root tree.Folder, files []tree.File) *tree.Node {
	if m.closed {
		return nil
	}
	next := tree.Build(root, files)
	tree.ExpandToDepth(next, m.opts.ExpandDepth)

	m.ctrl.SetRoot(next)
	m.loop.SetRoot(next)
	m.loads++

	stats := tree.Count(next)
	m.logger.Debug("Loaded mind map",
		"folders", stats.Folders,
		"files", stats.Files,
		"dropped", len(files)-stats.Files,
		"visible", tree.CountVisible(next),
		"reload", m.loads > 1)
	return next
}

// Root returns the current tree, or nil before the first Load.
func (m *Map) Root() *tree.Node { return m.ctrl.Root() }

// View returns the current pan, zoom and hover.
func (m *Map) View() render.View { return m.ctrl.View() }

// State returns the render loop state.
func (m *Map) State() render.State { return m.loop.State() }

// Controller exposes the interaction controller for hosts that need hit
// testing or coordinate conversion.
func (m *Map) Controller() *interact.Controller { return m.ctrl }

// Loop exposes the render loop.
func (m *Map) Loop() *render.Loop { return m.loop }

// PointerDown forwards a press.
func (m *Map) PointerDown(x, y float64) { m.apply(m.ctrl.PointerDown(x, y)) }

// PointerMove forwards a move.
func (m *Map) PointerMove(x, y float64) { m.apply(m.ctrl.PointerMove(x, y)) }

// PointerUp forwards a release.
func (m *Map) PointerUp(x, y float64) { m.apply(m.ctrl.PointerUp(x, y)) }

// PointerLeave forwards the pointer leaving the surface.
func (m *Map) PointerLeave() { m.apply(m.ctrl.PointerLeave()) }

// Click forwards a click.
func (m *Map) Click(x, y float64) { m.apply(m.ctrl.Click(x, y)) }

// Wheel forwards a wheel step.
func (m *Map) Wheel(x, y, deltaY float64) { m.apply(m.ctrl.Wheel(x, y, deltaY)) }

// ZoomAt zooms about a screen point by factor.
func (m *Map) ZoomAt(x, y, factor float64) { m.apply(m.ctrl.ZoomAt(x, y, factor)) }

// Pan moves the view by a screen delta.
func (m *Map) Pan(dx, dy float64) { m.apply(m.ctrl.Pan(dx, dy)) }

// ResetView restores identity pan and zoom.
func (m *Map) ResetView() { m.apply(m.ctrl.ResetView()) }

// Resize reports a new viewport size and re-centers the layout.
func (m *Map) Resize(width, height float64) { m.apply(m.ctrl.Resize(width, height)) }

// ExpandAll expands every folder.
func (m *Map) ExpandAll() { m.apply(m.ctrl.ExpandAll()) }

// CollapseAll collapses every folder but the root.
func (m *Map) CollapseAll() { m.apply(m.ctrl.CollapseAll()) }

// Close withdraws the pending frame and makes every later call a no-op.
func (m *Map) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.loop.Close()
	m.ctrl.Close()
	m.logger.Debug("Closed mind map", "frames", m.loop.Frames())
}

// Closed reports whether Close was called.
func (m *Map) Closed() bool { return m.closed }

func (m *Map) apply(changed bool) {
	if changed && !m.closed {
		m.loop.Invalidate()
	}
}
