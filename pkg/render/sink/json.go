package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Snapshot is the JSON export of one frame: every visible node with its
// current and target position, the edges between them and the view.
type Snapshot struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	View   SnapshotView   `json:"view"`
	Nodes  []SnapshotNode `json:"nodes"`
	Edges  []SnapshotEdge `json:"edges"`
}

// SnapshotView is the serialized [render.View].
type SnapshotView struct {
	PanX    float64 `json:"pan_x"`
	PanY    float64 `json:"pan_y"`
	Zoom    float64 `json:"zoom"`
	Hovered string  `json:"hovered,omitempty"`
}

// SnapshotNode is one visible node.
type SnapshotNode struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Path      string  `json:"path"`
	Kind      string  `json:"kind"`
	Depth     int     `json:"depth"`
	Expanded  bool    `json:"expanded,omitempty"`
	Children  int     `json:"children,omitempty"`
	FileCount int     `json:"file_count,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	TargetX   float64 `json:"target_x"`
	TargetY   float64 `json:"target_y"`
}

// SnapshotEdge connects a visible parent to a visible child.
type SnapshotEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewSnapshot captures the visible nodes in draw order.
func NewSnapshot(root *tree.Node, opts ...Option) Snapshot {
	o := newOptions(opts)
	s := Snapshot{
		Width:  o.width,
		Height: o.height,
		View:   SnapshotView{PanX: o.view.PanX, PanY: o.view.PanY, Zoom: o.view.Zoom, Hovered: o.view.HoveredID},
		Nodes:  []SnapshotNode{},
		Edges:  []SnapshotEdge{},
	}
	for _, n := range tree.Visible(root) {
		s.Nodes = append(s.Nodes, SnapshotNode{
			ID:        n.ID,
			Label:     n.Label,
			Path:      n.Path,
			Kind:      n.Kind.String(),
			Depth:     n.Depth,
			Expanded:  n.Expanded,
			Children:  len(n.Children),
			FileCount: n.FileCount,
			X:         n.X,
			Y:         n.Y,
			TargetX:   n.TargetX,
			TargetY:   n.TargetY,
		})
		if !n.ShowsChildren() {
			continue
		}
		for _, c := range n.Children {
			s.Edges = append(s.Edges, SnapshotEdge{From: n.ID, To: c.ID})
		}
	}
	return s
}

// RenderView returns the snapshot's view.
func (s Snapshot) RenderView() render.View {
	return render.View{PanX: s.View.PanX, PanY: s.View.PanY, Zoom: s.View.Zoom, HoveredID: s.View.Hovered}
}

// MarshalSnapshot exports the current frame as pretty-printed JSON.
func MarshalSnapshot(root *tree.Node, opts ...Option) ([]byte, error) {
	data, err := json.MarshalIndent(NewSnapshot(root, opts...), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot parses a document written by [MarshalSnapshot].
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}
