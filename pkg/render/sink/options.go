package sink

import "github.com/matzehuels/mindmap/pkg/render"

const (
	defaultWidth  = 1200
	defaultHeight = 800
)

// Option configures a sink.
type Option func(*options)

type options struct {
	theme  render.Theme
	view   render.View
	width  float64
	height float64
	scale  float64
}

// WithTheme sets the theme.
func WithTheme(t render.Theme) Option { return func(o *options) { o.theme = t } }

// WithView sets the pan, zoom and hovered node.
func WithView(v render.View) Option { return func(o *options) { o.view = v } }

// WithSize sets the canvas size in screen pixels. Non-positive values are
// ignored.
func WithSize(width, height float64) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithScale sets the PNG scale factor (2.0 for 2x resolution).
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		theme:  render.DefaultTheme(),
		view:   render.DefaultView(),
		width:  defaultWidth,
		height: defaultHeight,
		scale:  1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
