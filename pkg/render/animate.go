package render

import (
	"math"

	"github.com/matzehuels/mindmap/pkg/tree"
)

const (
	// DefaultLerp is the fraction of the remaining distance covered per frame.
	DefaultLerp = 0.15
	// DefaultSettleThreshold is how close (per axis, world units) every node
	// must be to its target for the map to count as settled.
	DefaultSettleThreshold = 0.5
)

// Advance moves every visible node a fraction lerp of the way toward its
// target. Hidden nodes are left where they are.
func Advance(root *tree.Node, lerp float64) {
	advance(tree.Visible(root), lerp)
}

// IsSettled reports whether every visible node is within threshold of its
// target on both axes.
func IsSettled(root *tree.Node, threshold float64) bool {
	return settled(tree.Visible(root), threshold)
}

func advance(nodes []*tree.Node, lerp float64) {
	for _, n := range nodes {
		n.X += (n.TargetX - n.X) * lerp
		n.Y += (n.TargetY - n.Y) * lerp
	}
}

func settled(nodes []*tree.Node, threshold float64) bool {
	for _, n := range nodes {
		if math.Abs(n.TargetX-n.X) > threshold || math.Abs(n.TargetY-n.Y) > threshold {
			return false
		}
	}
	return true
}

// Snap places every visible node exactly on its target.
func Snap(root *tree.Node) {
	for _, n := range tree.Visible(root) {
		n.X, n.Y = n.TargetX, n.TargetY
	}
}
