package render

import "github.com/matzehuels/mindmap/pkg/tree"

// pair returns an expanded root at the origin with one child whose target is
// (100, 0) but which still sits on the root.
func pair() (root, child *tree.Node) {
	child = &tree.Node{ID: "c", Label: "child", Path: "c", Depth: 1, TargetX: 100}
	root = &tree.Node{ID: "/", Label: "root", Depth: 0, Expanded: true, Children: []*tree.Node{child}}
	return root, child
}

// docs builds root "Docs" with folders A (3 files) and B (1 file), A
// expanded, every node placed on its target.
func docs() *tree.Node {
	root := tree.Build(tree.Folder{
		Name: "Docs",
		Path: "docs",
		Children: []tree.Folder{
			{Name: "A", Path: "docs/a", FileCount: 3},
			{Name: "B", Path: "docs/b", FileCount: 1},
		},
	}, []tree.File{
		{FilePath: "docs/a/1.md", ChunkCount: 4},
		{FilePath: "docs/a/2.md"},
		{FilePath: "docs/a/3.md"},
		{FilePath: "docs/b/1.md"},
	})
	root.Children[0].Expanded = true
	for i, n := range tree.Visible(root) {
		n.X, n.Y = float64(i*100), float64(i*50)
		n.TargetX, n.TargetY = n.X, n.Y
	}
	return root
}
