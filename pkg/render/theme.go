package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/mindmap/pkg/tree"
)

// Padding is the space between a label and its bubble outline.
type Padding struct {
	X, Y float64
}

// Theme holds every visual constant of the mind map.
type Theme struct {
	// Palette is indexed by depth. Depths past the end reuse the last entry.
	Palette []color.NRGBA

	Background color.NRGBA
	Edge       color.NRGBA
	Text       color.NRGBA

	// FontSizes is indexed by depth and clamped like Palette.
	FontSizes []float64

	RootPadding  Padding
	NodePadding  Padding
	CornerRadius float64

	IndicatorRadius float64
	BadgeRadius     float64

	// Curvature scales the perpendicular offset of edge control points.
	Curvature float64

	EdgeWidth      float64
	EdgeAlpha      uint8
	EdgeHoverWidth float64
	EdgeHoverAlpha uint8
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	return Theme{
		Palette: []color.NRGBA{
			MustHex("#6366F1"), // root
			MustHex("#0EA5E9"),
			MustHex("#10B981"),
			MustHex("#F59E0B"),
			MustHex("#EC4899"),
			MustHex("#8B5CF6"),
		},
		Background:      MustHex("#0F172A"),
		Edge:            MustHex("#94A3B8"),
		Text:            MustHex("#F8FAFC"),
		FontSizes:       []float64{16, 13, 12, 11},
		RootPadding:     Padding{X: 18, Y: 10},
		NodePadding:     Padding{X: 12, Y: 6},
		CornerRadius:    8,
		IndicatorRadius: 7,
		BadgeRadius:     8,
		Curvature:       0.15,
		EdgeWidth:       1.5,
		EdgeAlpha:       90,
		EdgeHoverWidth:  3,
		EdgeHoverAlpha:  230,
	}
}

// Color returns the fill for a node at depth. Past the last palette entry
// the last color repeats.
func (t Theme) Color(depth int) color.NRGBA {
	if len(t.Palette) == 0 {
		return t.Edge
	}
	return t.Palette[clampIndex(depth, len(t.Palette))]
}

// Font returns the label font of n. The root and the hovered node are bold.
func (t Theme) Font(n *tree.Node, hovered bool) Font {
	size := 12.0
	if len(t.FontSizes) > 0 {
		size = t.FontSizes[clampIndex(n.Depth, len(t.FontSizes))]
	}
	return Font{Size: size, Bold: hovered || n.IsRoot()}
}

// Box returns the bubble of n at its current position, sized from the
// label's measured extent plus padding.
func (t Theme) Box(m Measurer, n *tree.Node, hovered bool) Rect {
	w, h := m.MeasureText(n.Label, t.Font(n, hovered))
	pad := t.NodePadding
	if n.IsRoot() {
		pad = t.RootPadding
	}
	w += 2 * pad.X
	h += 2 * pad.Y
	return Rect{X: n.X - w/2, Y: n.Y - h/2, W: w, H: h}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	return min(i, n-1)
}

// =============================================================================
// Colors
// =============================================================================

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is like [ParseHex] but panics on malformed input. Use it for
// constants only.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lighten mixes c toward white by t in [0, 1].
func Lighten(c color.NRGBA, t float64) color.NRGBA {
	mix := func(v uint8) uint8 { return uint8(float64(v) + (255-float64(v))*t + 0.5) }
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
