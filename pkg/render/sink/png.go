package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/mindmap/pkg/fonts"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// glowSpread is how far the glow halo extends past a bubble, in world units.
const glowSpread = 5

// PNGSurface is a [render.Surface] backed by a gg raster context. Text is
// measured and drawn with the embedded Go fonts.
type PNGSurface struct {
	dc    *gg.Context
	scale float64
	err   error
}

// NewPNGSurface creates a raster surface of width x height screen pixels at
// the given pixel density.
func NewPNGSurface(width, height int, scale float64) *PNGSurface {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(float64(width) * scale))
	h := int(math.Ceil(float64(height) * scale))
	return &PNGSurface{dc: gg.NewContext(w, h), scale: scale}
}

// MeasureText implements [render.Measurer] with real glyph advances.
func (s *PNGSurface) MeasureText(text string, font render.Font) (w, h float64) {
	w, h, err := fonts.Measure(text, font.Size, font.Bold)
	if err != nil {
		s.fail(err)
		return render.DefaultCharMetrics.MeasureText(text, font)
	}
	return w, h
}

func (s *PNGSurface) Begin(view render.View, bg color.NRGBA) {
	s.dc.Identity()
	s.dc.SetColor(bg)
	s.dc.Clear()

	zoom := view.Zoom
	if zoom == 0 {
		zoom = 1
	}
	s.dc.Scale(s.scale, s.scale)
	s.dc.Translate(view.PanX, view.PanY)
	s.dc.Scale(zoom, zoom)
}

func (s *PNGSurface) Curve(x1, y1, cx, cy, x2, y2 float64, stroke render.Stroke) {
	if stroke.Width <= 0 {
		return
	}
	s.dc.NewSubPath()
	s.dc.MoveTo(x1, y1)
	s.dc.QuadraticTo(cx, cy, x2, y2)
	s.dc.SetColor(stroke.Color)
	s.dc.SetLineWidth(stroke.Width * s.scale)
	s.dc.Stroke()
}

func (s *PNGSurface) RoundedRect(r render.Rect, radius float64, fill color.NRGBA, stroke render.Stroke, glow color.NRGBA) {
	if glow.A > 0 {
		s.dc.DrawRoundedRectangle(r.X-glowSpread, r.Y-glowSpread, r.W+2*glowSpread, r.H+2*glowSpread, radius+glowSpread)
		s.dc.SetColor(render.WithAlpha(glow, glow.A/2))
		s.dc.Fill()
	}
	s.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	s.fillAndStroke(fill, stroke)
}

func (s *PNGSurface) Circle(x, y, radius float64, fill color.NRGBA, stroke render.Stroke) {
	s.dc.DrawCircle(x, y, radius)
	s.fillAndStroke(fill, stroke)
}

func (s *PNGSurface) Text(text string, x, y float64, font render.Font, c color.NRGBA) {
	face, err := fonts.Face(font.Size, font.Bold)
	if err != nil {
		s.fail(err)
		return
	}
	s.dc.SetFontFace(face)
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(text, x, y, 0.5, 0.35)
}

func (s *PNGSurface) End() {}

// Image returns the rasterized frame.
func (s *PNGSurface) Image() image.Image { return s.dc.Image() }

// Bytes encodes the current frame as PNG. It reports the first font error
// hit while drawing.
func (s *PNGSurface) Bytes() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PNGSurface) fillAndStroke(fill color.NRGBA, stroke render.Stroke) {
	s.dc.SetColor(fill)
	if stroke.Width <= 0 {
		s.dc.Fill()
		return
	}
	s.dc.FillPreserve()
	s.dc.SetColor(stroke.Color)
	s.dc.SetLineWidth(stroke.Width * s.scale)
	s.dc.Stroke()
}

func (s *PNGSurface) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// RenderPNG rasterizes the visible nodes at their current positions.
func RenderPNG(root *tree.Node, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	s := NewPNGSurface(int(o.width), int(o.height), o.scale)
	render.Draw(s, root, o.view, o.theme)
	return s.Bytes()
}
