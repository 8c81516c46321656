package interact

import (
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Zoom limits and wheel factors.
const (
	MinZoom = 0.3
	MaxZoom = 3.0

	ZoomOutFactor = 0.9
	ZoomInFactor  = 1.1
)

// NavigateEvent asks the host to open a file.
type NavigateEvent struct {
	Path string
}

// Navigator receives navigation requests for clicked file leaves.
type Navigator interface {
	Navigate(ev NavigateEvent)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ev NavigateEvent)

// Navigate calls f(ev).
func (f NavigatorFunc) Navigate(ev NavigateEvent) { f(ev) }

// Option configures a Controller.
type Option func(*Controller)

// WithNavigator sets the receiver of file clicks.
func WithNavigator(n Navigator) Option { return func(c *Controller) { c.nav = n } }

// WithTheme sets the theme used to size bubbles for hit testing. It must
// match the theme the render loop draws with.
func WithTheme(t render.Theme) Option { return func(c *Controller) { c.theme = t } }

// WithMeasurer sets the text measurer used for hit testing, normally the
// drawing surface itself.
func WithMeasurer(m render.Measurer) Option { return func(c *Controller) { c.measurer = m } }

// WithLayout passes options to every layout run.
func WithLayout(opts ...layout.Option) Option {
	return func(c *Controller) { c.layoutOpts = append(c.layoutOpts, opts...) }
}

// Controller is the interaction state machine. Like the render loop it is
// not safe for concurrent use.
type Controller struct {
	root          *tree.Node
	view          render.View
	width, height float64

	dragging     bool
	lastX, lastY float64

	theme      render.Theme
	measurer   render.Measurer
	nav        Navigator
	layoutOpts []layout.Option

	last   layout.Result
	closed bool
}

// New creates a controller for a width x height viewport and lays out root
// around its center.
func New(root *tree.Node, width, height float64, opts ...Option) *Controller {
	c := &Controller{
		root:     root,
		view:     render.DefaultView(),
		width:    width,
		height:   height,
		theme:    render.DefaultTheme(),
		measurer: render.DefaultCharMetrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Relayout()
	return c
}

// Root returns the tree.
func (c *Controller) Root() *tree.Node { return c.root }

// SetRoot swaps in a rebuilt tree and lays it out. Pan and zoom survive.
func (c *Controller) SetRoot(root *tree.Node) {
	if c.closed {
		return
	}
	c.root = root
	c.view.HoveredID = ""
	c.dragging = false
	c.Relayout()
}

// View returns the current view state.
func (c *Controller) View() render.View { return c.view }

// Hovered returns the id of the node under the pointer, or "".
func (c *Controller) Hovered() string { return c.view.HoveredID }

// Dragging reports whether a pan drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Size returns the viewport size.
func (c *Controller) Size() (width, height float64) { return c.width, c.height }

// Center returns the viewport center in screen pixels, where the root is
// laid out.
func (c *Controller) Center() (x, y float64) { return c.width / 2, c.height / 2 }

// LastLayout returns the result of the most recent layout run.
func (c *Controller) LastLayout() layout.Result { return c.last }

// Relayout recomputes all visible targets around the viewport center.
func (c *Controller) Relayout() layout.Result {
	if c.root == nil || c.closed {
		return layout.Result{}
	}
	cx, cy := c.Center()
	c.last = layout.Apply(c.root, cx, cy, c.layoutOpts...)
	if c.view.HoveredID != "" {
		if _, ok := tree.Index(c.root)[c.view.HoveredID]; !ok {
			c.view.HoveredID = ""
		}
	}
	return c.last
}

// ScreenToWorld converts a screen point with the current view.
func (c *Controller) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return c.view.ScreenToWorld(sx, sy)
}

// WorldToScreen converts a world point with the current view.
func (c *Controller) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.view.WorldToScreen(wx, wy)
}

// HitTest returns the visible node whose bubble contains the screen point,
// checking the last drawn node first, or nil.
func (c *Controller) HitTest(sx, sy float64) *tree.Node {
	if c.root == nil {
		return nil
	}
	wx, wy := c.view.ScreenToWorld(sx, sy)
	nodes := tree.Visible(c.root)
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if c.theme.Box(c.measurer, n, c.view.Hovered(n.ID)).Contains(wx, wy) {
			return n
		}
	}
	return nil
}

// PointerDown starts a pan drag.
func (c *Controller) PointerDown(sx, sy float64) bool {
	if c.closed {
		return false
	}
	c.dragging = true
	c.lastX, c.lastY = sx, sy
	return false
}

// PointerMove pans while dragging and updates the hovered node otherwise.
func (c *Controller) PointerMove(sx, sy float64) bool {
	if c.closed {
		return false
	}
	if c.dragging {
		dx, dy := sx-c.lastX, sy-c.lastY
		c.lastX, c.lastY = sx, sy
		return c.Pan(dx, dy)
	}

	id := ""
	if n := c.HitTest(sx, sy); n != nil {
		id = n.ID
	}
	if id == c.view.HoveredID {
		return false
	}
	c.view.HoveredID = id
	return true
}

// PointerUp ends a pan drag.
func (c *Controller) PointerUp(sx, sy float64) bool {
	c.dragging = false
	return false
}

// PointerLeave clears the hover and ends any drag.
func (c *Controller) PointerLeave() bool {
	c.dragging = false
	if c.view.HoveredID == "" {
		return false
	}
	c.view.HoveredID = ""
	return true
}

// Click toggles the folder under the pointer and re-runs the layout, or
// sends a navigation request for a file leaf.
func (c *Controller) Click(sx, sy float64) bool {
	if c.closed {
		return false
	}
	n := c.HitTest(sx, sy)
	switch {
	case n == nil:
		return false
	case n.IsFile():
		if c.nav != nil {
			c.nav.Navigate(NavigateEvent{Path: n.Path})
		}
		return false
	default:
		n.Toggle()
		c.Relayout()
		return true
	}
}

// Wheel zooms by one step about the pointer: out for positive deltaY, in
// otherwise.
func (c *Controller) Wheel(sx, sy, deltaY float64) bool {
	factor := ZoomInFactor
	if deltaY > 0 {
		factor = ZoomOutFactor
	}
	return c.ZoomAt(sx, sy, factor)
}

// ZoomAt scales the zoom by factor, clamped to [MinZoom, MaxZoom], keeping
// the world point under (sx, sy) fixed on screen.
func (c *Controller) ZoomAt(sx, sy, factor float64) bool {
	if c.closed {
		return false
	}
	old := c.view.Zoom
	if old == 0 {
		old = 1
	}
	next := clamp(old*factor, MinZoom, MaxZoom)
	if next == old {
		return false
	}
	c.view.PanX = sx - (sx-c.view.PanX)*(next/old)
	c.view.PanY = sy - (sy-c.view.PanY)*(next/old)
	c.view.Zoom = next
	return true
}

// Pan moves the view by a screen-space delta.
func (c *Controller) Pan(dx, dy float64) bool {
	if c.closed || (dx == 0 && dy == 0) {
		return false
	}
	c.view.PanX += dx
	c.view.PanY += dy
	return true
}

// ResetView restores the identity pan and zoom.
func (c *Controller) ResetView() bool {
	if c.closed {
		return false
	}
	c.view.PanX, c.view.PanY, c.view.Zoom = 0, 0, 1
	return true
}

// Resize records the new viewport size and re-centers the layout.
func (c *Controller) Resize(width, height float64) bool {
	if c.closed {
		return false
	}
	c.width, c.height = width, height
	c.Relayout()
	return true
}

// ExpandAll expands every folder and re-runs the layout.
func (c *Controller) ExpandAll() bool {
	if c.closed || c.root == nil {
		return false
	}
	tree.SetExpandedAll(c.root, true)
	c.Relayout()
	return true
}

// CollapseAll collapses every folder except the root and re-runs the
// layout.
func (c *Controller) CollapseAll() bool {
	if c.closed || c.root == nil {
		return false
	}
	tree.SetExpandedAll(c.root, false)
	c.Relayout()
	return true
}

// Close makes every later event a no-op.
func (c *Controller) Close() {
	c.closed = true
	c.dragging = false
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool { return c.closed }

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
