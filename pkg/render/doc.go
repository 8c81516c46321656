// Package render animates and draws the mind map.
//
// # Overview
//
// The package owns the per-frame side of the engine:
//
//   - [Advance] moves every visible node's current position a fixed
//     fraction toward its target (a first-order exponential approach).
//   - [IsSettled] reports whether all visible nodes are within a threshold
//     of their targets.
//   - [Draw] paints edges and node bubbles onto a [Surface].
//   - [Loop] ties them together as a two-state machine (animating/settled)
//     driven by a host [Scheduler].
//
// The loop never runs layout. Layout runs on discrete events and writes new
// targets; the next frame animates toward them.
//
// # Surfaces
//
// A [Surface] is a generic 2D drawing target working in world coordinates
// under a pan/zoom [View]. Concrete surfaces live elsewhere: SVG, PNG and
// DOT in [sink], the terminal cell canvas in [term].
//
// # Scheduling
//
// A frame request is the only resource the loop holds. [Loop.Close] withdraws
// it, after which the loop ignores every trigger.
//
//	loop := render.NewLoop(surface, sched, render.WithTheme(theme))
//	loop.SetRoot(root)   // schedules the first frame
//	...
//	loop.Close()         // teardown
package render
