package interact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// docs builds root "Docs" with collapsed folders A (3 files) and B (1 file).
func docs() *tree.Node {
	return tree.Build(tree.Folder{
		Name: "Docs",
		Path: "docs",
		Children: []tree.Folder{
			{Name: "A", Path: "docs/a", FileCount: 3},
			{Name: "B", Path: "docs/b", FileCount: 1},
		},
	}, []tree.File{
		{FilePath: "docs/a/1.md"}, {FilePath: "docs/a/2.md"}, {FilePath: "docs/a/3.md"},
		{FilePath: "docs/b/1.md"},
	})
}

// settled returns a controller over docs() on an 800x600 viewport with
// every node resting on its target.
func settled(t *testing.T, opts ...Option) (*Controller, *tree.Node) {
	t.Helper()
	root := docs()
	c := New(root, 800, 600, opts...)
	render.Snap(root)
	return c, root
}

func find(t *testing.T, root *tree.Node, id string) *tree.Node {
	t.Helper()
	n := tree.Find(root, id)
	require.NotNil(t, n, id)
	return n
}

func TestNewLaysOutAroundCenter(t *testing.T) {
	c, root := settled(t)

	assert.Equal(t, 400.0, root.TargetX)
	assert.Equal(t, 300.0, root.TargetY)
	assert.Equal(t, render.DefaultView(), c.View())

	a := find(t, root, "docs/a")
	assert.InDelta(t, 600, a.TargetX, 1e-9)
	assert.InDelta(t, 300, a.TargetY, 1e-9)
	slice := c.LastLayout().Slices["docs/a"]
	assert.InDelta(t, -math.Pi/2, slice.Start, 1e-12)
	assert.InDelta(t, math.Pi, slice.Span, 1e-12)
}

func TestHitTest(t *testing.T) {
	c, root := settled(t)
	a := find(t, root, "docs/a")

	assert.Same(t, a, c.HitTest(a.X, a.Y))
	assert.Same(t, root, c.HitTest(400, 300))
	assert.Nil(t, c.HitTest(5, 5))

	// Screen coordinates go through the view.
	c.Pan(100, 50)
	assert.Nil(t, c.HitTest(a.X, a.Y+60))
	assert.Same(t, a, c.HitTest(a.X+100, a.Y+50))
}

func TestHitTestReverseDrawOrder(t *testing.T) {
	x := &tree.Node{ID: "x", Label: "xxxx", Depth: 1}
	y := &tree.Node{ID: "y", Label: "yyyy", Depth: 1}
	root := &tree.Node{ID: "/", Label: "r", Expanded: true, Children: []*tree.Node{x, y}}
	c := New(root, 800, 600)

	root.X, root.Y = 0, 0
	x.X, x.Y = 500, 500
	y.X, y.Y = 505, 500

	assert.Same(t, y, c.HitTest(502, 500), "the last drawn node is on top")
}

func TestPointerMoveHover(t *testing.T) {
	c, root := settled(t)
	a := find(t, root, "docs/a")

	assert.True(t, c.PointerMove(a.X, a.Y))
	assert.Equal(t, "docs/a", c.Hovered())
	assert.False(t, c.PointerMove(a.X+1, a.Y), "same node, nothing to redraw")

	assert.True(t, c.PointerMove(5, 5))
	assert.Empty(t, c.Hovered())

	c.PointerMove(a.X, a.Y)
	assert.True(t, c.PointerLeave())
	assert.Empty(t, c.Hovered())
	assert.False(t, c.PointerLeave())
}

func TestDragPansOneToOne(t *testing.T) {
	c, _ := settled(t)
	c.Wheel(0, 0, -1)
	c.Wheel(0, 0, -1)
	zoom := c.View().Zoom

	assert.False(t, c.PointerDown(10, 10))
	assert.True(t, c.Dragging())
	assert.True(t, c.PointerMove(30, 25))
	assert.True(t, c.PointerMove(25, 35))
	assert.False(t, c.PointerMove(25, 35))

	v := c.View()
	assert.InDelta(t, 15, v.PanX, 1e-9)
	assert.InDelta(t, 25, v.PanY, 1e-9)
	assert.Equal(t, zoom, v.Zoom)
	assert.Empty(t, c.Hovered(), "no hover while dragging")

	c.PointerUp(25, 35)
	assert.False(t, c.Dragging())
}

func TestWheelKeepsPointerFixed(t *testing.T) {
	c, _ := settled(t)
	c.Pan(37, -12)

	px, py := 123.0, 456.0
	for _, delta := range []float64{-1, -1, 3, -0.5, 2, 2, 2} {
		wx, wy := c.ScreenToWorld(px, py)
		c.Wheel(px, py, delta)
		sx, sy := c.WorldToScreen(wx, wy)
		assert.InDelta(t, px, sx, 1e-9)
		assert.InDelta(t, py, sy, 1e-9)
	}
}

func TestWheelFactors(t *testing.T) {
	c, _ := settled(t)

	assert.True(t, c.Wheel(0, 0, 120))
	assert.InDelta(t, 0.9, c.View().Zoom, 1e-12)
	assert.True(t, c.Wheel(0, 0, -120))
	assert.InDelta(t, 0.99, c.View().Zoom, 1e-12)
	assert.True(t, c.Wheel(0, 0, 0), "zero delta zooms in")
	assert.InDelta(t, 1.089, c.View().Zoom, 1e-12)
}

func TestZoomClamp(t *testing.T) {
	c, _ := settled(t)

	for i := 0; i < 50; i++ {
		c.Wheel(400, 300, -1)
	}
	assert.Equal(t, MaxZoom, c.View().Zoom)
	assert.False(t, c.Wheel(400, 300, -1))

	for i := 0; i < 100; i++ {
		c.Wheel(400, 300, 1)
	}
	assert.Equal(t, MinZoom, c.View().Zoom)
	assert.False(t, c.Wheel(400, 300, 1))

	assert.True(t, c.ResetView())
	assert.Equal(t, render.DefaultView(), c.View())
}

func TestClickFolderTogglesAndRelayouts(t *testing.T) {
	c, root := settled(t)
	a := find(t, root, "docs/a")
	require.Equal(t, 3, tree.CountVisible(root))

	assert.True(t, c.Click(a.X, a.Y))
	assert.True(t, a.Expanded)
	assert.Equal(t, 6, tree.CountVisible(root))

	// A's slice is now three quarters of the circle, so its midpoint moves
	// to pi/4.
	assert.InDelta(t, 400+200*math.Cos(math.Pi/4), a.TargetX, 1e-9)
	assert.InDelta(t, 300+200*math.Sin(math.Pi/4), a.TargetY, 1e-9)
	assert.InDelta(t, 600, a.X, 1e-9, "current position is left to the render loop")

	render.Snap(root)
	assert.True(t, c.Click(a.X, a.Y))
	assert.False(t, a.Expanded)
	assert.Equal(t, 3, tree.CountVisible(root))
}

func TestClickFileNavigates(t *testing.T) {
	var got []NavigateEvent
	nav := NavigatorFunc(func(ev NavigateEvent) { got = append(got, ev) })
	c, root := settled(t, WithNavigator(nav))
	a := find(t, root, "docs/a")

	c.Click(a.X, a.Y)
	render.Snap(root)

	f := find(t, root, "file:docs/a/2.md")
	before := tree.CountVisible(root)
	assert.False(t, c.Click(f.X, f.Y))
	assert.Equal(t, []NavigateEvent{{Path: "docs/a/2.md"}}, got)
	assert.Equal(t, before, tree.CountVisible(root))
}

func TestClickEmptySpace(t *testing.T) {
	c, root := settled(t)
	assert.False(t, c.Click(3, 3))
	assert.Equal(t, 3, tree.CountVisible(root))
}

func TestResizeRecenters(t *testing.T) {
	c, root := settled(t)

	assert.True(t, c.Resize(1000, 800))
	assert.Equal(t, 500.0, root.TargetX)
	assert.Equal(t, 400.0, root.TargetY)
	assert.Equal(t, 400.0, root.X)

	w, h := c.Size()
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 800.0, h)
}

func TestExpandCollapseAll(t *testing.T) {
	c, root := settled(t)

	assert.True(t, c.ExpandAll())
	assert.Equal(t, 7, tree.CountVisible(root))
	assert.Len(t, c.LastLayout().Slices, 6)

	render.Snap(root)
	f := find(t, root, "file:docs/b/1.md")
	c.PointerMove(f.X, f.Y)
	require.Equal(t, f.ID, c.Hovered())

	assert.True(t, c.CollapseAll())
	assert.Equal(t, 3, tree.CountVisible(root))
	assert.True(t, root.Expanded)
	assert.Empty(t, c.Hovered(), "hidden nodes cannot stay hovered")
}

func TestSetRoot(t *testing.T) {
	c, root := settled(t)
	c.PointerMove(root.X, root.Y)
	c.Pan(10, 10)

	next := docs()
	c.SetRoot(next)
	assert.Same(t, next, c.Root())
	assert.Empty(t, c.Hovered())
	assert.Equal(t, 10.0, c.View().PanX, "pan survives a reload")
	assert.Equal(t, 400.0, next.TargetX)
}

func TestClosedControllerIgnoresEvents(t *testing.T) {
	var got []NavigateEvent
	c, root := settled(t, WithNavigator(NavigatorFunc(func(ev NavigateEvent) { got = append(got, ev) })))
	a := find(t, root, "docs/a")
	c.Close()
	assert.True(t, c.Closed())

	view := c.View()
	assert.False(t, c.Click(a.X, a.Y))
	assert.False(t, a.Expanded)
	assert.False(t, c.Wheel(0, 0, 1))
	assert.False(t, c.PointerDown(0, 0))
	assert.False(t, c.PointerMove(10, 10))
	assert.False(t, c.Resize(10, 10))
	assert.False(t, c.ExpandAll())
	assert.False(t, c.CollapseAll())
	assert.False(t, c.ResetView())
	assert.Equal(t, view, c.View())
	assert.Empty(t, got)
}
