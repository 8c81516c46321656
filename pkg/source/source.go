// Package source adapts external document collections to the folder record
// and flat file list the tree builder consumes.
//
// # Sources
//
//   - [FS]: scans a directory hierarchy on any billy filesystem
//   - [JSON]: reads a {"root": ..., "files": [...]} document
//   - [SQLite]: reads a document index table and synthesizes the folders
//   - [Cached]: wraps another source with a [cache.Cache]
//
// Use [Load] rather than calling Source.Load directly so that load hooks
// fire.
package source

import (
	"context"
	"time"

	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Source produces the input records of a mind map.
type Source interface {
	// Kind names the adapter ("fs", "json", "sqlite").
	Kind() string
	// Location identifies the data, such as a directory or database path.
	Location() string
	// Load reads the folder hierarchy and the flat file list.
	Load(ctx context.Context) (tree.Folder, []tree.File, error)
}

// Snapshot is the serialized form of a loaded source. It is the document
// format of [JSON] and of cached snapshots.
type Snapshot struct {
	Root  tree.Folder `json:"root"`
	Files []tree.File `json:"files"`
}

// Load calls src.Load and reports the load to the observability hooks.
func Load(ctx context.Context, src Source) (tree.Folder, []tree.File, error) {
	hooks := observability.Source()
	hooks.OnLoadStart(ctx, src.Kind())
	start := time.Now()

	root, files, err := src.Load(ctx)
	hooks.OnLoadComplete(ctx, src.Kind(), CountFolders(root), len(files), time.Since(start), err)
	return root, files, err
}

// CountFolders returns the number of folder records in the hierarchy,
// root included.
func CountFolders(f tree.Folder) int {
	n := 1
	for _, c := range f.Children {
		n += CountFolders(c)
	}
	return n
}
