package tree

import (
	"path"
	"strings"
)

// Build converts a folder record and a flat file list into a node tree.
//
// Every folder with a positive FileCount claims the files whose parent
// directory equals the folder path, or whose path lies below it. Child
// folders are built first, so the deepest owning folder wins and a
// shallower ancestor only picks up what is left. Files that no folder claims
// are omitted.
//
// Only the root starts expanded; all positions start at zero.
func Build(root Folder, files []File) *Node {
	n, _ := build(root, files)
	return n
}

// Unattached returns the files that [Build] would drop because no folder
// claims them.
func Unattached(root Folder, files []File) []File {
	_, rest := build(root, files)
	return rest
}

func build(root Folder, files []File) (*Node, []File) {
	b := builder{files: files, claimed: make([]bool, len(files))}
	n := b.folder(root, 0)

	var rest []File
	for i, f := range files {
		if !b.claimed[i] {
			rest = append(rest, f)
		}
	}
	return n, rest
}

type builder struct {
	files   []File
	claimed []bool
}

func (b *builder) folder(f Folder, depth int) *Node {
	n := &Node{
		ID:        folderID(f.Path),
		Label:     folderLabel(f),
		Path:      f.Path,
		Kind:      KindFolder,
		FileCount: f.FileCount,
		Depth:     depth,
		Expanded:  depth == 0,
	}

	for _, child := range f.Children {
		n.Children = append(n.Children, b.folder(child, depth+1))
	}

	if f.FileCount <= 0 {
		return n
	}
	for i, file := range b.files {
		if b.claimed[i] || !owns(f.Path, file.FilePath) {
			continue
		}
		b.claimed[i] = true
		n.Children = append(n.Children, fileNode(file, depth+1))
	}
	return n
}

func fileNode(f File, depth int) *Node {
	label := f.Title
	if label == "" {
		label = path.Base(f.FilePath)
	}
	return &Node{
		ID:        fileID(f.FilePath),
		Label:     label,
		Path:      f.FilePath,
		Kind:      KindFile,
		FileCount: f.ChunkCount,
		Depth:     depth,
	}
}

func folderLabel(f Folder) string {
	if f.Name != "" {
		return f.Name
	}
	if base := path.Base(f.Path); base != "." {
		return base
	}
	return "/"
}

// owns reports whether the folder at dir owns the file at p: either p sits
// directly in dir, or dir is one of its ancestors. An empty (or "/") dir
// owns everything.
func owns(dir, p string) bool {
	if parentDir(p) == dir {
		return true
	}
	prefix := strings.TrimSuffix(dir, "/")
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

func parentDir(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}
