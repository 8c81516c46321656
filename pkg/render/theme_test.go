package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/tree"
)

func TestThemeColorClamps(t *testing.T) {
	theme := DefaultTheme()
	last := theme.Palette[len(theme.Palette)-1]

	assert.Equal(t, theme.Palette[0], theme.Color(0))
	assert.Equal(t, theme.Palette[3], theme.Color(3))
	assert.Equal(t, last, theme.Color(len(theme.Palette)))
	assert.Equal(t, last, theme.Color(40))

	theme.Palette = nil
	assert.Equal(t, theme.Edge, theme.Color(2))
}

func TestThemeFont(t *testing.T) {
	theme := DefaultTheme()

	assert.Equal(t, Font{Size: 16, Bold: true}, theme.Font(&tree.Node{Depth: 0}, false))
	assert.Equal(t, Font{Size: 13}, theme.Font(&tree.Node{Depth: 1}, false))
	assert.Equal(t, Font{Size: 12, Bold: true}, theme.Font(&tree.Node{Depth: 2}, true))
	assert.Equal(t, Font{Size: 11}, theme.Font(&tree.Node{Depth: 9}, false))
}

func TestThemeBox(t *testing.T) {
	theme := DefaultTheme()
	m := CharMetrics{CharWidth: 0.5, LineHeight: 1}

	n := &tree.Node{Label: "abcd", Depth: 1, X: 100, Y: 50}
	box := theme.Box(m, n, false)
	// 4 chars * 13 * 0.5 = 26 wide, 13 tall, plus 12/6 padding
	assert.InDelta(t, 50, box.W, 1e-9)
	assert.InDelta(t, 25, box.H, 1e-9)
	assert.InDelta(t, 75, box.X, 1e-9)
	assert.InDelta(t, 37.5, box.Y, 1e-9)
	assert.True(t, box.Contains(100, 50))
	assert.True(t, box.Contains(box.Right(), box.Bottom()))
	assert.False(t, box.Contains(box.Right()+0.1, 50))

	hovered := theme.Box(m, n, true)
	assert.Greater(t, hovered.W, box.W, "bold labels are wider")

	root := &tree.Node{Label: "abcd"}
	rootBox := theme.Box(m, root, false)
	assert.InDelta(t, 4*16*0.5*1.06+36, rootBox.W, 1e-9)
	assert.InDelta(t, 16+20, rootBox.H, 1e-9)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#6366F1", color.NRGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0xff}, false},
		{"0f172a", color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}, false},
		{" #ffffff80 ", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}, false},
		{"#fff", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorHelpers(t *testing.T) {
	c := MustHex("#000000")
	assert.Equal(t, "#000000", Hex(c))
	assert.Equal(t, "#808080", Hex(Lighten(c, 0.5)))
	assert.Equal(t, c, Lighten(c, 0))
	assert.Equal(t, uint8(10), WithAlpha(c, 10).A)
	assert.Panics(t, func() { MustHex("nope") })
}

func TestViewRoundTrip(t *testing.T) {
	v := View{PanX: 120, PanY: -40, Zoom: 1.7}
	for _, p := range [][2]float64{{0, 0}, {400, 300}, {-55.5, 1e4}} {
		wx, wy := v.ScreenToWorld(p[0], p[1])
		sx, sy := v.WorldToScreen(wx, wy)
		assert.InDelta(t, p[0], sx, 1e-9)
		assert.InDelta(t, p[1], sy, 1e-9)
	}

	var zero View
	wx, wy := zero.ScreenToWorld(10, 20)
	assert.Equal(t, 10.0, wx)
	assert.Equal(t, 20.0, wy)
	assert.False(t, zero.Hovered(""))
}

func TestFit(t *testing.T) {
	m := CharMetrics{CharWidth: 0.5, LineHeight: 1}
	theme := DefaultTheme()

	root := &tree.Node{Label: "abcd", X: 1000, Y: -500}
	v := Fit(root, m, theme, 800, 600, 20)
	assert.Equal(t, 1.0, v.Zoom, "small content is not magnified")
	sx, sy := v.WorldToScreen(1000, -500)
	assert.InDelta(t, 400, sx, 1e-9)
	assert.InDelta(t, 300, sy, 1e-9)

	child := &tree.Node{Label: "abcd", Depth: 1, X: 5000, Y: -500}
	root.Expanded = true
	root.Children = []*tree.Node{child}
	v = Fit(root, m, theme, 800, 600, 20)
	assert.Less(t, v.Zoom, 1.0)
	for _, n := range []*tree.Node{root, child} {
		b := theme.Box(m, n, false)
		x1, y1 := v.WorldToScreen(b.X, b.Y)
		x2, y2 := v.WorldToScreen(b.Right(), b.Bottom())
		assert.GreaterOrEqual(t, x1, 20-1e-9)
		assert.GreaterOrEqual(t, y1, 0.0)
		assert.LessOrEqual(t, x2, 780+1e-9)
		assert.LessOrEqual(t, y2, 600.0)
	}
}
