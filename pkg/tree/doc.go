// Package tree converts a folder hierarchy and a flat file list into the
// mutable node tree that the mind map lays out, animates and draws.
//
// # Input Records
//
// The external data layer supplies one [Folder] record (recursively shaped)
// and a flat list of [File] records. [Build] attaches every file to the
// deepest folder that owns it and returns the root [Node]. Files that match
// no folder are dropped silently; [Unattached] reports them for diagnostics.
//
// # Node Identity
//
// Folder nodes are keyed by their path. File nodes are keyed by
// [FileIDPrefix] followed by the file path, so a folder and a file can never
// share an id.
//
// # Mutation
//
// The children of a node are fixed at construction. Afterwards only the
// Expanded flag and the position fields change: the interaction layer flips
// Expanded, the layout engine writes TargetX/TargetY, and the animation loop
// moves X/Y toward the target. A source-data change rebuilds the tree
// wholesale.
//
// # Visibility
//
// A node is visible when every ancestor is expanded; the root is always
// visible. [Visible] returns visible nodes in pre-order, which is also the
// draw order (later nodes are drawn on top).
package tree
