package layout

import (
	"math"
	"time"

	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Sector is an angular range in radians.
type Sector struct {
	Start float64
	Span  float64
}

// Mid returns the angle halfway through the sector.
func (s Sector) Mid() float64 { return s.Start + s.Span/2 }

// End returns the angle where the sector stops.
func (s Sector) End() float64 { return s.Start + s.Span }

// Result describes what a layout run did. Positions themselves are written
// to the nodes' TargetX/TargetY.
type Result struct {
	// Slices maps every visible non-root node to the sector its parent
	// allocated to it.
	Slices map[string]Sector
	// Ranges maps every visible node that shows children to the sector its
	// children divide among themselves. The root's range is the full circle.
	Ranges map[string]Sector

	// Passes is the number of collision passes that ran; Adjustments the
	// number of pairs pushed apart across all passes.
	Passes      int
	Adjustments int
}

// Weight returns the number of leaf-equivalent units n currently
// represents: 1 for a collapsed node or a leaf, otherwise the sum of its
// children's weights.
func Weight(n *tree.Node) int {
	if !n.ShowsChildren() {
		return 1
	}
	w := 0
	for _, c := range n.Children {
		w += Weight(c)
	}
	return w
}

// Apply assigns target positions to every visible node under root, with the
// root pinned at (cx, cy), then resolves collisions between the targets.
// Current positions are left untouched.
func Apply(root *tree.Node, cx, cy float64, opts ...Option) Result {
	start := time.Now()
	cfg := newConfig(opts)
	res := Result{
		Slices: make(map[string]Sector),
		Ranges: make(map[string]Sector),
	}
	if root == nil {
		return res
	}

	root.TargetX, root.TargetY = cx, cy
	if root.ShowsChildren() {
		full := Sector{Start: -math.Pi / 2, Span: 2 * math.Pi}
		radius := math.Max(cfg.RootMinRadius, float64(len(root.Children))*cfg.RootRadiusPerChild)
		res.Ranges[root.ID] = full

		p := placer{cfg: cfg, res: &res}
		p.place(root, full, radius, 0)
	}

	visible := tree.Visible(root)
	res.Passes, res.Adjustments = ResolveCollisions(visible, cfg)

	observability.Layout().OnLayout(len(visible), res.Passes, res.Adjustments, time.Since(start))
	return res
}

type placer struct {
	cfg Config
	res *Result
}

// place spreads n's children over sector at distance radius from n's
// target. level is n's distance from the root.
func (p *placer) place(n *tree.Node, sector Sector, radius float64, level int) {
	weights := make([]int, len(n.Children))
	total := 0
	for i, c := range n.Children {
		weights[i] = Weight(c)
		total += weights[i]
	}
	if total == 0 {
		return
	}

	angle := sector.Start
	for i, c := range n.Children {
		slice := Sector{Start: angle, Span: sector.Span * float64(weights[i]) / float64(total)}
		angle += slice.Span
		p.res.Slices[c.ID] = slice

		mid := slice.Mid()
		c.TargetX = n.TargetX + radius*math.Cos(mid)
		c.TargetY = n.TargetY + radius*math.Sin(mid)

		if !c.ShowsChildren() {
			continue
		}

		var span, next float64
		if level == 0 {
			span = math.Min(slice.Span*p.cfg.BranchSpread, p.cfg.BranchSpreadMax)
			next = math.Max(p.cfg.BranchMinRadius, float64(weights[i])*p.cfg.BranchRadiusPerWeight)
		} else {
			span = math.Min(slice.Span*p.cfg.DeepSpread, p.cfg.DeepSpreadMax)
			next = math.Max(radius*p.cfg.DeepRadiusFactor, p.cfg.DeepMinRadius)
		}

		rng := Sector{Start: mid - span/2, Span: span}
		p.res.Ranges[c.ID] = rng
		p.place(c, rng, next, level+1)
	}
}
