package term

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

func TestCellToScreen(t *testing.T) {
	x, y := CellToScreen(0, 0)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 8.0, y)

	x, y = CellToScreen(2, 3)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 56.0, y)
}

func TestCanvasSize(t *testing.T) {
	c := New(0, -3)
	cols, rows := c.Size()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)

	c.Resize(80, 24)
	w, h := c.ScreenSize()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 384.0, h)
}

func TestDrawSingleNode(t *testing.T) {
	c := New(20, 6)
	root := &tree.Node{ID: "/", Label: "ab", X: 40, Y: 40}
	render.Draw(c, root, render.DefaultView(), render.DefaultTheme())

	lines := strings.Split(c.Plain(), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "    ab", lines[2])
	assert.Contains(t, c.String(), "ab")

	// The bubble spans columns 1-8 and rows 1-3.
	theme := render.DefaultTheme()
	fill := render.Lighten(theme.Palette[0], 0.15)
	for row := 1; row <= 3; row++ {
		for col := 1; col <= 8; col++ {
			assert.Equal(t, fill, c.at(col, row).bg, "cell %d,%d", col, row)
		}
	}
	assert.Equal(t, theme.Background, c.at(0, 0).bg)
	assert.Equal(t, theme.Background, c.at(9, 2).bg)
}

func TestDrawEdgesAndIndicator(t *testing.T) {
	c := New(40, 6)
	child := &tree.Node{ID: "c", Label: "c", Depth: 1, X: 200, Y: 40}
	root := &tree.Node{ID: "/", Label: "ab", X: 40, Y: 40, Expanded: true, Children: []*tree.Node{child}}
	render.Draw(c, root, render.DefaultView(), render.DefaultTheme())

	plain := c.Plain()
	assert.Contains(t, plain, "·")
	assert.Contains(t, plain, "−")
	assert.Contains(t, plain, "c")

	render.Draw(c, root, render.View{Zoom: 1, HoveredID: "c"}, render.DefaultTheme())
	assert.Contains(t, c.Plain(), "•", "hovered edges use the heavy glyph")
}

func TestDrawOffCanvas(t *testing.T) {
	c := New(10, 4)
	root := &tree.Node{ID: "/", Label: "far away", X: 40, Y: 40}
	assert.NotPanics(t, func() {
		render.Draw(c, root, render.View{PanX: -5000, PanY: 9000, Zoom: 2}, render.DefaultTheme())
	})
	assert.Equal(t, "\n\n\n", c.Plain())
}

func TestMeasureText(t *testing.T) {
	c := New(1, 1)
	w, h := c.MeasureText("héllo", render.Font{Size: 40})
	assert.Equal(t, 40.0, w)
	assert.InDelta(t, 9.6, h, 1e-9)
}
