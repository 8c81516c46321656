package tree

import "strings"

// FileIDPrefix distinguishes file node ids from folder node ids.
const FileIDPrefix = "file:"

// =============================================================================
// Input Records
// =============================================================================

// Folder is the hierarchical folder record supplied by the data layer.
type Folder struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Children  []Folder `json:"children,omitempty"`
	FileCount int      `json:"file_count"`
}

// File is one entry of the flat file list supplied by the data layer.
type File struct {
	FilePath   string `json:"file_path"`
	Title      string `json:"title,omitempty"`
	ChunkCount int    `json:"chunk_count"`
}

// =============================================================================
// Node
// =============================================================================

// Kind tells folder nodes from file leaves.
type Kind int

const (
	KindFolder Kind = iota
	KindFile
)

// String returns "folder" or "file".
func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "folder"
}

// Node is one element of the mind map tree. A node exclusively owns its
// children; there are no parent pointers.
type Node struct {
	ID    string
	Label string
	Path  string
	Kind  Kind

	Children []*Node

	// FileCount is the folder's file_count, or the chunk count of a file
	// leaf. It is only used for badges.
	FileCount int
	Depth     int
	Expanded  bool

	// Current rendered position.
	X, Y float64
	// Position the layout engine wants the node to reach.
	TargetX, TargetY float64
}

// IsFile reports whether n is a file leaf.
func (n *Node) IsFile() bool { return n.Kind == KindFile }

// IsRoot reports whether n is the tree root.
func (n *Node) IsRoot() bool { return n.Depth == 0 }

// HasChildren reports whether n has any children, visible or not.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// ShowsChildren reports whether n's children are visible, assuming n itself is.
func (n *Node) ShowsChildren() bool { return n.Expanded && len(n.Children) > 0 }

// Toggle flips the expanded flag of a folder, including one without
// children. File leaves are left alone.
func (n *Node) Toggle() {
	if n.IsFile() {
		return
	}
	n.Expanded = !n.Expanded
}

// folderID returns the id of a folder node. The unnamed root folder gets
// "/" so that no id is empty.
func folderID(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// fileID returns the id of a file leaf.
func fileID(path string) string { return FileIDPrefix + path }

// IsFileID reports whether id names a file leaf.
func IsFileID(id string) bool { return strings.HasPrefix(id, FileIDPrefix) }
