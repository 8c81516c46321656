// Package layout computes radial target positions for the visible part of a
// mind map tree.
//
// # Algorithm
//
// [Apply] pins the root at the requested center and spreads its children
// around the full circle, starting straight up. Every child receives an
// angular slice proportional to its [Weight]: a collapsed node or a leaf
// weighs 1, an expanded node weighs the sum of its children. Expanded
// children recurse into their own slice, narrowed so that sibling subtrees
// do not fan into each other, at a radius that shrinks with depth.
//
// After all targets are assigned, [ResolveCollisions] runs a bounded number
// of passes that push overlapping target pairs apart. The root never moves.
// The pass is a cheap declutter step, not a solver: it does not guarantee
// zero overlap.
//
// # Scope
//
// Only visible nodes get new targets. Hidden nodes keep whatever target they
// had; nothing draws them.
//
// Layout never fails. A root without children simply sits at the center.
package layout
