package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// pointsPerInch converts world units (treated as points) to the inches
// neato expects in pos attributes.
const pointsPerInch = 72.0

// ToDOT converts the visible part of the map to undirected Graphviz DOT.
// Every node is pinned at its current position (pos="x,y!"), with the y axis
// flipped to Graphviz's upward orientation, so neato reproduces the radial
// layout instead of computing its own.
func ToDOT(root *tree.Node, opts ...Option) string {
	o := newOptions(opts)
	t := o.theme

	var buf bytes.Buffer
	buf.WriteString("graph mindmap {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", render.Hex(t.Background))
	buf.WriteString("  splines=curved;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontcolor=%q, penwidth=1];\n", render.Hex(t.Text))
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%.1f];\n", render.Hex(t.Edge), t.EdgeWidth)
	buf.WriteString("\n")

	nodes := tree.Visible(root)
	for _, n := range nodes {
		fill := t.Color(n.Depth)
		font := t.Font(n, false)
		attrs := fmt.Sprintf("label=%q, pos=\"%.3f,%.3f!\", fillcolor=%q, color=%q, fontsize=%.0f",
			dotLabel(n), n.X/pointsPerInch, -n.Y/pointsPerInch,
			render.Hex(fill), render.Hex(render.Lighten(fill, 0.25)), font.Size)
		if n.IsFile() {
			attrs += ", shape=note"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if !n.ShowsChildren() {
			continue
		}
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -- %q;\n", n.ID, c.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *tree.Node) string {
	switch {
	case n.IsFile() && n.FileCount > 0:
		return fmt.Sprintf("%s (%d)", n.Label, n.FileCount)
	case !n.IsFile() && n.HasChildren() && !n.Expanded:
		return n.Label + " +"
	default:
		return n.Label
	}
}

// RenderDOT renders DOT source to SVG with neato, honoring pinned positions.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
