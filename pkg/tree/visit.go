package tree

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the node just visited.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Visible returns the visible nodes under root in pre-order (draw order).
// The slice is derived on every call and never cached on the nodes.
func Visible(root *Node) []*Node {
	if root == nil {
		return nil
	}
	return appendVisible(nil, root)
}

func appendVisible(out []*Node, n *Node) []*Node {
	out = append(out, n)
	if n.Expanded {
		for _, c := range n.Children {
			out = appendVisible(out, c)
		}
	}
	return out
}

// CountVisible returns the number of visible nodes in the subtree rooted at
// n, n included.
func CountVisible(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	if n.Expanded {
		for _, c := range n.Children {
			count += CountVisible(c)
		}
	}
	return count
}

// Index builds a transient id lookup over the visible nodes.
func Index(root *Node) map[string]*Node {
	nodes := Visible(root)
	idx := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		idx[n.ID] = n
	}
	return idx
}

// Find returns the node with the given id anywhere in the tree, visible or
// not.
func Find(root *Node, id string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// SetExpandedAll expands or collapses every folder. Collapsing keeps the
// root open.
func SetExpandedAll(root *Node, expanded bool) {
	Walk(root, func(n *Node) bool {
		if !n.IsFile() {
			n.Expanded = expanded || n.IsRoot()
		}
		return true
	})
}

// ExpandToDepth expands every folder shallower than depth and collapses the
// rest. A negative depth expands everything. The root always stays open.
func ExpandToDepth(root *Node, depth int) {
	if depth < 0 {
		SetExpandedAll(root, true)
		return
	}
	Walk(root, func(n *Node) bool {
		if !n.IsFile() {
			n.Expanded = n.IsRoot() || n.Depth < depth
		}
		return true
	})
}

// Stats summarizes a tree.
type Stats struct {
	Folders int
	Files   int
	Depth   int
}

// Count returns folder/file totals and the maximum depth of the whole tree.
func Count(root *Node) Stats {
	var s Stats
	Walk(root, func(n *Node) bool {
		if n.IsFile() {
			s.Files++
		} else {
			s.Folders++
		}
		s.Depth = max(s.Depth, n.Depth)
		return true
	})
	return s
}
