package render

import (
	"image/color"
	"strconv"

	"github.com/matzehuels/mindmap/pkg/tree"
)

const (
	collapsedGlyph = "+"
	expandedGlyph  = "−"
)

// Draw paints one frame: edges first, then node bubbles in pre-order so that
// later nodes sit on top. Hit testing walks the same order backwards.
func Draw(s Surface, root *tree.Node, view View, theme Theme) {
	draw(s, tree.Visible(root), view, theme)
}

func draw(s Surface, nodes []*tree.Node, view View, theme Theme) {
	s.Begin(view, theme.Background)
	for _, n := range nodes {
		drawEdges(s, n, view, theme)
	}
	for _, n := range nodes {
		drawNode(s, n, view, theme)
	}
	s.End()
}

func drawEdges(s Surface, n *tree.Node, view View, theme Theme) {
	if !n.ShowsChildren() {
		return
	}
	for _, c := range n.Children {
		stroke := Stroke{Color: WithAlpha(theme.Edge, theme.EdgeAlpha), Width: theme.EdgeWidth}
		if view.Hovered(n.ID) || view.Hovered(c.ID) {
			stroke = Stroke{Color: WithAlpha(theme.Edge, theme.EdgeHoverAlpha), Width: theme.EdgeHoverWidth}
		}
		cx, cy := controlPoint(n, c, theme.Curvature)
		s.Curve(n.X, n.Y, cx, cy, c.X, c.Y, stroke)
	}
}

// controlPoint offsets the segment midpoint perpendicular to the segment by
// curvature times the child's displacement from its parent.
func controlPoint(parent, child *tree.Node, curvature float64) (x, y float64) {
	dx := child.X - parent.X
	dy := child.Y - parent.Y
	mx := (parent.X + child.X) / 2
	my := (parent.Y + child.Y) / 2
	return mx - dy*curvature, my + dx*curvature
}

func drawNode(s Surface, n *tree.Node, view View, theme Theme) {
	hovered := view.Hovered(n.ID)
	emphasis := hovered || n.IsRoot()

	box := theme.Box(s, n, hovered)
	fill := theme.Color(n.Depth)
	outline := Stroke{Color: Lighten(fill, 0.25), Width: 1}
	var glow color.NRGBA
	if emphasis {
		fill = Lighten(fill, 0.15)
		outline = Stroke{Color: Lighten(fill, 0.5), Width: 2}
		glow = WithAlpha(fill, 110)
	}

	radius := theme.CornerRadius
	if n.IsRoot() {
		radius *= 1.5
	}
	s.RoundedRect(box, radius, fill, outline, glow)
	s.Text(n.Label, n.X, n.Y, theme.Font(n, hovered), theme.Text)

	switch {
	case !n.IsFile() && n.HasChildren():
		glyph := collapsedGlyph
		if n.Expanded {
			glyph = expandedGlyph
		}
		r := theme.IndicatorRadius
		s.Circle(box.Right(), n.Y, r, theme.Background, Stroke{Color: fill, Width: 1.5})
		s.Text(glyph, box.Right(), n.Y, Font{Size: r * 1.6, Bold: true}, theme.Text)

	case n.IsFile() && n.FileCount > 0:
		r := theme.BadgeRadius
		s.Circle(box.Right(), box.Y, r, Lighten(fill, 0.35), Stroke{})
		s.Text(strconv.Itoa(n.FileCount), box.Right(), box.Y, Font{Size: r * 1.2, Bold: true}, theme.Background)
	}
}
