// Package interact turns raw pointer, wheel and resize events into view
// changes, expand/collapse toggles and navigation requests.
//
// A [Controller] owns the [render.View] (pan, zoom, hovered node) and is the
// only writer of the tree's expanded flags. Every structural change re-runs
// the layout with the current viewport center; current positions are left
// alone so the render loop animates the transition.
//
// All coordinates passed to the controller are host screen pixels. Event
// methods report whether the next frame looks different, so the host knows
// when to wake the render loop.
package interact
