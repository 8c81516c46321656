package pipeline

import (
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/render/sink"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Build builds the node tree and applies the expansion depth.
func Build(folder tree.Folder, files []tree.File, expand int) *tree.Node {
	root := tree.Build(folder, files)
	tree.ExpandToDepth(root, expand)
	return root
}

// Settled is the outcome of the settle stage.
type Settled struct {
	// Layout is the layout run the animation converged to.
	Layout layout.Result
	// View is the view the artifacts are drawn with.
	View render.View
	// Frames is the number of animation frames run.
	Frames int
	// Settled is false when the frame cap was hit and positions were
	// snapped to their targets.
	Settled bool
	// SVG is the last animation frame when no fitting was requested.
	SVG []byte
}

// Settle lays out root around the frame center, starting every node at the
// origin, and runs the render loop headlessly until every visible node
// reached its target or opts.MaxFrames frames ran.
func Settle(root *tree.Node, opts Options) Settled {
	cx, cy := opts.Width/2, opts.Height/2
	tree.Walk(root, func(n *tree.Node) bool {
		n.X, n.Y = 0, 0
		n.TargetX, n.TargetY = 0, 0
		return true
	})

	surface := sink.NewSVGSurface(opts.Width, opts.Height)
	sched := &render.ManualScheduler{}
	loop := render.NewLoop(surface, sched,
		render.WithTheme(opts.Theme),
		render.WithLerp(opts.Lerp),
		render.WithSettleThreshold(opts.Threshold),
	)
	defer loop.Close()

	res := layout.Apply(root, cx, cy, layout.WithConfig(opts.Layout))
	loop.SetRoot(root)
	frames := loop.RunUntilSettled(opts.MaxFrames)

	out := Settled{
		Layout:  res,
		View:    render.DefaultView(),
		Frames:  frames,
		Settled: loop.State() == render.Settled,
	}
	if !out.Settled {
		render.Snap(root)
	}
	if opts.Fit {
		out.View = render.Fit(root, surface, opts.Theme, opts.Width, opts.Height, DefaultMargin)
	} else if out.Settled {
		out.SVG = surface.Bytes()
	}
	return out
}
