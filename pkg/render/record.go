package render

import "image/color"

// Call is one recorded drawing operation.
type Call struct {
	Method string // "curve", "rect", "circle" or "text"

	Text   string
	X, Y   float64
	CX, CY float64 // curve control point
	X2, Y2 float64 // curve end
	Rect   Rect
	Radius float64
	Fill   color.NRGBA
	Glow   color.NRGBA
	Stroke Stroke
	Font   Font
}

// Recorder is a [Surface] that keeps the calls of the last frame instead of
// drawing them. Headless hosts use it to count frames; tests inspect it.
type Recorder struct {
	// Measurer defaults to [DefaultCharMetrics].
	Measurer Measurer

	View       View
	Background color.NRGBA
	Calls      []Call
	Frames     int
	open       bool
}

// MeasureText implements [Measurer].
func (r *Recorder) MeasureText(text string, font Font) (w, h float64) {
	if r.Measurer == nil {
		return DefaultCharMetrics.MeasureText(text, font)
	}
	return r.Measurer.MeasureText(text, font)
}

func (r *Recorder) Begin(view View, bg color.NRGBA) {
	r.View = view
	r.Background = bg
	r.Calls = r.Calls[:0]
	r.open = true
}

func (r *Recorder) Curve(x1, y1, cx, cy, x2, y2 float64, stroke Stroke) {
	r.Calls = append(r.Calls, Call{Method: "curve", X: x1, Y: y1, CX: cx, CY: cy, X2: x2, Y2: y2, Stroke: stroke})
}

func (r *Recorder) RoundedRect(rect Rect, radius float64, fill color.NRGBA, stroke Stroke, glow color.NRGBA) {
	r.Calls = append(r.Calls, Call{Method: "rect", Rect: rect, Radius: radius, Fill: fill, Stroke: stroke, Glow: glow})
}

func (r *Recorder) Circle(x, y, radius float64, fill color.NRGBA, stroke Stroke) {
	r.Calls = append(r.Calls, Call{Method: "circle", X: x, Y: y, Radius: radius, Fill: fill, Stroke: stroke})
}

func (r *Recorder) Text(text string, x, y float64, font Font, c color.NRGBA) {
	r.Calls = append(r.Calls, Call{Method: "text", Text: text, X: x, Y: y, Font: font, Fill: c})
}

func (r *Recorder) End() {
	if r.open {
		r.Frames++
		r.open = false
	}
}

// Filter returns the recorded calls of one method, in order.
func (r *Recorder) Filter(method string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns every drawn string, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Filter("text") {
		out = append(out, c.Text)
	}
	return out
}
