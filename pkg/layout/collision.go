package layout

import (
	"math"

	"github.com/matzehuels/mindmap/pkg/tree"
)

// ResolveCollisions pushes apart the targets of non-root nodes closer than
// cfg.MinDistance. Each offending pair moves apart along the line joining
// them, each node by half the deficit. Pairs closer than cfg.StabilityFloor
// have no usable direction and are skipped.
//
// It runs at most cfg.CollisionIterations passes and stops after the first
// pass that changes nothing. It returns the passes run and the total number
// of adjusted pairs.
func ResolveCollisions(nodes []*tree.Node, cfg Config) (passes, adjustments int) {
	movable := make([]*tree.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Depth > 0 {
			movable = append(movable, n)
		}
	}

	for passes < cfg.CollisionIterations {
		passes++
		moved := 0
		for i := 0; i < len(movable); i++ {
			a := movable[i]
			for j := i + 1; j < len(movable); j++ {
				b := movable[j]
				dx := b.TargetX - a.TargetX
				dy := b.TargetY - a.TargetY
				dist := math.Hypot(dx, dy)
				if dist >= cfg.MinDistance || dist <= cfg.StabilityFloor {
					continue
				}

				push := (cfg.MinDistance - dist) / 2
				ux, uy := dx/dist, dy/dist
				a.TargetX -= ux * push
				a.TargetY -= uy * push
				b.TargetX += ux * push
				b.TargetY += uy * push
				moved++
			}
		}
		adjustments += moved
		if moved == 0 {
			break
		}
	}
	return passes, adjustments
}
