// Package sink provides the concrete drawing surfaces and export formats for
// a laid-out mind map.
//
// # Overview
//
// A "sink" takes a tree whose nodes already have positions and produces a
// final output format:
//
//   - SVG: [SVGSurface] writes one SVG element per drawing call
//   - PNG: [PNGSurface] rasterizes with fogleman/gg and the Go fonts
//   - PDF: the SVG converted by rsvg-convert
//   - DOT: node-link Graphviz source with pinned positions, see [ToDOT]
//   - JSON: a [Snapshot] of positions, targets and view
//
// The SVG and PNG surfaces implement [render.Surface], so they can also be
// driven frame by frame by a [render.Loop].
//
// # Usage
//
//	svg := sink.RenderSVG(root, sink.WithSize(1200, 800))
//	png, err := sink.RenderPNG(root, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(ctx, root)
//	dot := sink.ToDOT(root)
//	data, err := sink.MarshalSnapshot(root)
//
// # Options
//
//   - [WithTheme]: colors, fonts and geometry (default [render.DefaultTheme])
//   - [WithView]: pan, zoom and hover (default identity)
//   - [WithSize]: canvas size in screen pixels (default 1200x800)
//   - [WithScale]: PNG pixel density (default 1)
//
// # Dependencies
//
// PDF conversion requires librsvg (rsvg-convert). DOT rendering uses
// [github.com/goccy/go-graphviz] in-process.
package sink
