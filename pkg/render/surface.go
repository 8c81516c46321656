package render

import "image/color"

// Font describes the text style of a label.
type Font struct {
	Size float64
	Bold bool
}

// Stroke describes an outline or line. A zero Width draws nothing.
type Stroke struct {
	Color color.NRGBA
	Width float64
}

// Measurer reports the extent of a label in world units.
type Measurer interface {
	MeasureText(text string, font Font) (w, h float64)
}

// Surface is a 2D drawing target. All coordinates passed after Begin are
// world coordinates; the surface applies the view's pan and zoom.
type Surface interface {
	Measurer

	// Begin clears the surface to bg and installs the view transform.
	Begin(view View, bg color.NRGBA)
	// Curve strokes a quadratic Bézier from (x1,y1) to (x2,y2) with control
	// point (cx,cy).
	Curve(x1, y1, cx, cy, x2, y2 float64, stroke Stroke)
	// RoundedRect fills and strokes r with rounded corners. A glow color
	// with non-zero alpha draws a soft halo behind the rectangle.
	RoundedRect(r Rect, radius float64, fill color.NRGBA, stroke Stroke, glow color.NRGBA)
	// Circle fills and strokes a circle.
	Circle(x, y, radius float64, fill color.NRGBA, stroke Stroke)
	// Text draws a label centered on (x, y).
	Text(text string, x, y float64, font Font, c color.NRGBA)
	// End finishes the frame.
	End()
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CharMetrics estimates text extents from a fixed per-character width. It is
// the measurer for surfaces without real font metrics (SVG, terminal).
type CharMetrics struct {
	// CharWidth is the advance of one character as a fraction of the font
	// size; LineHeight the line height as a fraction of the font size.
	CharWidth  float64
	LineHeight float64
}

// DefaultCharMetrics approximates a proportional sans-serif face.
var DefaultCharMetrics = CharMetrics{CharWidth: 0.58, LineHeight: 1.2}

// MeasureText implements [Measurer].
func (m CharMetrics) MeasureText(text string, font Font) (w, h float64) {
	n := float64(len([]rune(text)))
	cw := m.CharWidth
	if font.Bold {
		cw *= 1.06
	}
	return n * font.Size * cw, font.Size * m.LineHeight
}
