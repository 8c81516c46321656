package source

import (
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/mindmap/pkg/tree"
)

// FoldersFromFiles synthesizes the folder hierarchy implied by the file
// paths. The root has an empty path, so it owns every file. Every folder's
// file count covers its whole subtree and children are sorted by name.
func FoldersFromFiles(name string, files []tree.File) tree.Folder {
	root := &folderNode{Folder: tree.Folder{Name: name}}
	for _, f := range files {
		root.FileCount++
		dir := path.Dir(strings.TrimPrefix(f.FilePath, "/"))
		if dir == "." || dir == "/" {
			continue
		}
		node := root
		for _, part := range strings.Split(dir, "/") {
			node = node.child(part)
			node.FileCount++
		}
	}
	return root.build()
}

type folderNode struct {
	tree.Folder
	kids map[string]*folderNode
}

func (n *folderNode) child(name string) *folderNode {
	if c, ok := n.kids[name]; ok {
		return c
	}
	if n.kids == nil {
		n.kids = make(map[string]*folderNode)
	}
	c := &folderNode{Folder: tree.Folder{Name: name, Path: path.Join(n.Path, name)}}
	n.kids[name] = c
	return c
}

func (n *folderNode) build() tree.Folder {
	f := n.Folder
	names := make([]string, 0, len(n.kids))
	for name := range n.kids {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f.Children = append(f.Children, n.kids[name].build())
	}
	return f
}
