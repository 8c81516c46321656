package render

import "github.com/matzehuels/mindmap/pkg/tree"

// View is the pan/zoom/hover state the interaction layer owns and hands to
// the render loop each frame.
type View struct {
	PanX, PanY float64
	Zoom       float64
	HoveredID  string
}

// DefaultView is the identity transform with nothing hovered.
func DefaultView() View { return View{Zoom: 1} }

func (v View) scale() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

// ScreenToWorld converts a screen point to world coordinates:
// world = (screen - pan) / zoom.
func (v View) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	z := v.scale()
	return (sx - v.PanX) / z, (sy - v.PanY) / z
}

// WorldToScreen converts a world point to screen coordinates.
func (v View) WorldToScreen(wx, wy float64) (sx, sy float64) {
	z := v.scale()
	return wx*z + v.PanX, wy*z + v.PanY
}

// Hovered reports whether the node with the given id is under the pointer.
func (v View) Hovered(id string) bool { return v.HoveredID != "" && v.HoveredID == id }

// Fit returns the view that centers the visible nodes' bubbles inside a
// width x height screen with margin on every side. It never zooms in past
// 1, and returns the identity view for an empty bounding box.
func Fit(root *tree.Node, m Measurer, theme Theme, width, height, margin float64) View {
	var minX, minY, maxX, maxY float64
	first := true
	for _, n := range tree.Visible(root) {
		b := theme.Box(m, n, false)
		if first {
			minX, minY, maxX, maxY = b.X, b.Y, b.Right(), b.Bottom()
			first = false
			continue
		}
		minX, minY = min(minX, b.X), min(minY, b.Y)
		maxX, maxY = max(maxX, b.Right()), max(maxY, b.Bottom())
	}
	bw, bh := maxX-minX, maxY-minY
	if first || bw <= 0 || bh <= 0 {
		return DefaultView()
	}

	zoom := min(1, (width-2*margin)/bw, (height-2*margin)/bh)
	if zoom <= 0 {
		zoom = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return View{
		PanX: width/2 - cx*zoom,
		PanY: height/2 - cy*zoom,
		Zoom: zoom,
	}
}
