package sink

import "github.com/matzehuels/mindmap/pkg/tree"

// docs builds root "Docs" with folders A (3 files) and B (1 file), A
// expanded, every node placed on its target around (400, 300).
func docs() *tree.Node {
	root := tree.Build(tree.Folder{
		Name: "Docs",
		Path: "docs",
		Children: []tree.Folder{
			{Name: "A", Path: "docs/a", FileCount: 3},
			{Name: "B & <b>", Path: "docs/b", FileCount: 1},
		},
	}, []tree.File{
		{FilePath: "docs/a/1.md", ChunkCount: 4},
		{FilePath: "docs/a/2.md"},
		{FilePath: "docs/a/3.md"},
		{FilePath: "docs/b/1.md"},
	})
	root.Children[0].Expanded = true

	pos := map[string][2]float64{
		"docs":             {400, 300},
		"docs/a":           {541.42, 441.42},
		"file:docs/a/1.md": {681.42, 441.42},
		"file:docs/a/2.md": {541.42, 581.42},
		"file:docs/a/3.md": {640.42, 540.42},
		"docs/b":           {258.58, 158.58},
	}
	for _, n := range tree.Visible(root) {
		p := pos[n.ID]
		n.X, n.Y = p[0], p[1]
		n.TargetX, n.TargetY = p[0], p[1]
	}
	return root
}
