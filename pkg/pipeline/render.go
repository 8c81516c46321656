package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/mindmap/pkg/render/sink"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Render generates output artifacts of the settled tree in the requested
// formats.
func Render(ctx context.Context, root *tree.Node, s Settled, opts Options) (map[string][]byte, error) {
	sinkOpts := []sink.Option{
		sink.WithTheme(opts.Theme),
		sink.WithView(s.View),
		sink.WithSize(opts.Width, opts.Height),
		sink.WithScale(opts.Scale),
	}

	artifacts := make(map[string][]byte)
	svg := s.SVG
	svgOnce := func() []byte {
		if svg == nil {
			svg = sink.RenderSVG(root, sinkOpts...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = sink.RenderPNG(root, sinkOpts...)
		case FormatPDF:
			data, err = sink.ToPDF(ctx, svgOnce())
		case FormatDOT:
			data = []byte(sink.ToDOT(root, sinkOpts...))
		case FormatNeato:
			data, err = sink.RenderDOT(ctx, sink.ToDOT(root, sinkOpts...))
		case FormatJSON:
			data, err = sink.MarshalSnapshot(root, sinkOpts...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
