package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"

	"github.com/matzehuels/mindmap/pkg/fonts"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

const svgDefs = `  <defs>
    <filter id="glow" x="-50%" y="-50%" width="200%" height="200%">
      <feGaussianBlur stdDeviation="6"/>
    </filter>
  </defs>
`

// SVGSurface is a [render.Surface] that writes SVG. Each Begin starts a new
// document; Bytes returns the last finished one.
type SVGSurface struct {
	render.CharMetrics

	width, height float64
	buf           bytes.Buffer
	done          []byte
}

// NewSVGSurface creates a surface with the given viewport size.
func NewSVGSurface(width, height float64) *SVGSurface {
	return &SVGSurface{CharMetrics: render.DefaultCharMetrics, width: width, height: height}
}

func (s *SVGSurface) Begin(view render.View, bg color.NRGBA) {
	s.buf.Reset()
	fmt.Fprintf(&s.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	s.buf.WriteString(svgDefs)
	fmt.Fprintf(&s.buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", render.Hex(bg))

	zoom := view.Zoom
	if zoom == 0 {
		zoom = 1
	}
	fmt.Fprintf(&s.buf, `  <g transform="translate(%.2f %.2f) scale(%.4f)" font-family="%s">`+"\n",
		view.PanX, view.PanY, zoom, escapeXML(fonts.FontFamily))
}

func (s *SVGSurface) Curve(x1, y1, cx, cy, x2, y2 float64, stroke render.Stroke) {
	fmt.Fprintf(&s.buf, `    <path class="edge" d="M%.2f %.2f Q%.2f %.2f %.2f %.2f" fill="none"%s/>`+"\n",
		x1, y1, cx, cy, x2, y2, strokeAttrs(stroke))
}

func (s *SVGSurface) RoundedRect(r render.Rect, radius float64, fill color.NRGBA, stroke render.Stroke, glow color.NRGBA) {
	if glow.A > 0 {
		fmt.Fprintf(&s.buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f"%s filter="url(#glow)"/>`+"\n",
			r.X, r.Y, r.W, r.H, radius, fillAttrs(glow))
	}
	fmt.Fprintf(&s.buf, `    <rect class="node" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f"%s%s/>`+"\n",
		r.X, r.Y, r.W, r.H, radius, fillAttrs(fill), strokeAttrs(stroke))
}

func (s *SVGSurface) Circle(x, y, radius float64, fill color.NRGBA, stroke render.Stroke) {
	fmt.Fprintf(&s.buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"%s%s/>`+"\n",
		x, y, radius, fillAttrs(fill), strokeAttrs(stroke))
}

func (s *SVGSurface) Text(text string, x, y float64, font render.Font, c color.NRGBA) {
	weight := "normal"
	if font.Bold {
		weight = "bold"
	}
	fmt.Fprintf(&s.buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.1f" font-weight="%s"%s>%s</text>`+"\n",
		x, y, font.Size, weight, fillAttrs(c), escapeXML(text))
}

func (s *SVGSurface) End() {
	s.buf.WriteString("  </g>\n</svg>\n")
	s.done = bytes.Clone(s.buf.Bytes())
}

// Bytes returns the last finished document, or nil before the first End.
func (s *SVGSurface) Bytes() []byte { return s.done }

// RenderSVG draws the visible nodes at their current positions as one SVG
// document.
func RenderSVG(root *tree.Node, opts ...Option) []byte {
	o := newOptions(opts)
	s := NewSVGSurface(o.width, o.height)
	render.Draw(s, root, o.view, o.theme)
	return s.Bytes()
}

func fillAttrs(c color.NRGBA) string {
	if c.A == 0 {
		return ` fill="none"`
	}
	if c.A == 0xff {
		return fmt.Sprintf(` fill="%s"`, render.Hex(c))
	}
	return fmt.Sprintf(` fill="%s" fill-opacity="%.3f"`, render.Hex(c), float64(c.A)/255)
}

func strokeAttrs(st render.Stroke) string {
	if st.Width <= 0 || st.Color.A == 0 {
		return ""
	}
	attrs := fmt.Sprintf(` stroke="%s" stroke-width="%.2f"`, render.Hex(st.Color), st.Width)
	if st.Color.A != 0xff {
		attrs += fmt.Sprintf(` stroke-opacity="%.3f"`, float64(st.Color.A)/255)
	}
	return attrs
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
