package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawOrder(t *testing.T) {
	rec := &Recorder{}
	Draw(rec, docs(), DefaultView(), DefaultTheme())

	require.NotEmpty(t, rec.Calls)
	assert.Equal(t, 1, rec.Frames)

	// All edges come before any bubble.
	lastCurve, firstRect := -1, len(rec.Calls)
	for i, c := range rec.Calls {
		if c.Method == "curve" {
			lastCurve = i
		}
		if c.Method == "rect" && i < firstRect {
			firstRect = i
		}
	}
	assert.Less(t, lastCurve, firstRect)

	assert.Len(t, rec.Filter("curve"), 5)
	assert.Len(t, rec.Filter("rect"), 6)
	assert.Equal(t,
		[]string{"Docs", "−", "A", "−", "1.md", "4", "2.md", "3.md", "B", "+"},
		rec.Texts())
}

func TestDrawHoverBoostsEdges(t *testing.T) {
	theme := DefaultTheme()
	rec := &Recorder{}
	Draw(rec, docs(), View{Zoom: 1, HoveredID: "docs/a"}, theme)

	curves := rec.Filter("curve")
	require.Len(t, curves, 5)
	widths := make([]float64, len(curves))
	for i, c := range curves {
		widths[i] = c.Stroke.Width
	}
	// Docs->A, Docs->B, A->1, A->2, A->3
	assert.Equal(t, []float64{3, 1.5, 3, 3, 3}, widths)
	assert.Equal(t, theme.EdgeHoverAlpha, curves[0].Stroke.Color.A)
	assert.Equal(t, theme.EdgeAlpha, curves[1].Stroke.Color.A)

	rects := rec.Filter("rect")
	assert.NotZero(t, rects[0].Glow.A, "root glows")
	assert.NotZero(t, rects[1].Glow.A, "hovered node glows")
	assert.Zero(t, rects[2].Glow.A)

	texts := rec.Filter("text")
	assert.True(t, texts[2].Font.Bold, "hovered label is bold")
	assert.False(t, texts[4].Font.Bold)
}

func TestDrawRootCornerRadius(t *testing.T) {
	theme := DefaultTheme()
	rec := &Recorder{}
	Draw(rec, docs(), DefaultView(), theme)

	rects := rec.Filter("rect")
	assert.Equal(t, theme.CornerRadius*1.5, rects[0].Radius)
	assert.Equal(t, theme.CornerRadius, rects[1].Radius)
}

func TestDrawIndicatorPosition(t *testing.T) {
	theme := DefaultTheme()
	root := docs()
	rec := &Recorder{}
	Draw(rec, root, DefaultView(), theme)

	box := theme.Box(rec, root, false)
	circle := rec.Filter("circle")[0]
	assert.Equal(t, box.Right(), circle.X)
	assert.Equal(t, root.Y, circle.Y)
	assert.Equal(t, theme.IndicatorRadius, circle.Radius)

	file := root.Children[0].Children[0]
	badge := rec.Filter("circle")[2]
	fileBox := theme.Box(rec, file, false)
	assert.Equal(t, fileBox.Right(), badge.X)
	assert.Equal(t, fileBox.Y, badge.Y)
}

func TestControlPoint(t *testing.T) {
	root, child := pair()
	child.X = 100

	x, y := controlPoint(root, child, 0.15)
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 15, y, 1e-9)
}

func TestDrawCollapsedRoot(t *testing.T) {
	root := docs()
	root.Expanded = false

	rec := &Recorder{}
	Draw(rec, root, DefaultView(), DefaultTheme())
	assert.Empty(t, rec.Filter("curve"))
	assert.Equal(t, []string{"Docs", "+"}, rec.Texts())
}
