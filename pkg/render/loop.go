package render

import (
	"time"

	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// State is the animation state of the loop.
type State int

const (
	// Settled means every visible node is within threshold of its target and
	// no frame is scheduled (unless the loop is live).
	Settled State = iota
	// Animating means at least one node is still moving.
	Animating
)

// String returns "settled" or "animating".
func (s State) String() string {
	if s == Animating {
		return "animating"
	}
	return "settled"
}

// Scheduler is the host's per-frame callback primitive: a timer, an event
// loop tick, a vsync callback. It must run fn on the same control flow that
// mutates the tree.
type Scheduler interface {
	// RequestFrame arranges for fn to run on the next frame. The returned
	// function withdraws the request if it has not run yet.
	RequestFrame(fn func()) (cancel func())
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithTheme sets the theme used for drawing.
func WithTheme(t Theme) LoopOption { return func(l *Loop) { l.theme = t } }

// WithLerp sets the per-frame approach fraction. Values outside (0, 1) are
// ignored.
func WithLerp(f float64) LoopOption {
	return func(l *Loop) {
		if f > 0 && f < 1 {
			l.lerp = f
		}
	}
}

// WithSettleThreshold sets the per-axis settle distance.
func WithSettleThreshold(d float64) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.threshold = d
		}
	}
}

// WithView sets the function the loop asks for the current view each frame.
func WithView(fn func() View) LoopOption { return func(l *Loop) { l.view = fn } }

// WithLive keeps the loop scheduling frames even when settled, for hosts
// that redraw continuously while the pointer is active.
func WithLive(live bool) LoopOption { return func(l *Loop) { l.live = live } }

// Loop is the animation and render loop. It is not safe for concurrent use:
// the host scheduler must call back on the goroutine that owns the tree.
type Loop struct {
	surface   Surface
	sched     Scheduler
	theme     Theme
	lerp      float64
	threshold float64
	view      func() View
	live      bool

	root   *tree.Node
	state  State
	cancel func()
	closed bool
	frames uint64
}

// NewLoop creates a settled loop with no tree. Nothing is scheduled until
// [Loop.SetRoot] or [Loop.Invalidate].
func NewLoop(s Surface, sched Scheduler, opts ...LoopOption) *Loop {
	l := &Loop{
		surface:   s,
		sched:     sched,
		theme:     DefaultTheme(),
		lerp:      DefaultLerp,
		threshold: DefaultSettleThreshold,
		view:      DefaultView,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetRoot replaces the tree the loop animates and schedules a frame.
func (l *Loop) SetRoot(root *tree.Node) {
	l.root = root
	l.Invalidate()
}

// SetLive toggles continuous scheduling.
func (l *Loop) SetLive(live bool) {
	l.live = live
	if live {
		l.Invalidate()
	}
}

// Invalidate reports an external change (new targets, pan/zoom, hover,
// resize) and makes sure a frame is pending.
func (l *Loop) Invalidate() {
	if l.closed || l.root == nil {
		return
	}
	l.state = Animating
	l.schedule()
}

// Frame advances every visible node one step, draws, and re-schedules
// itself unless the map settled. It returns the state after the frame.
func (l *Loop) Frame() State {
	if l.closed || l.root == nil {
		return l.state
	}
	start := time.Now()

	nodes := tree.Visible(l.root)
	advance(nodes, l.lerp)
	draw(l.surface, nodes, l.view(), l.theme)
	l.frames++

	done := settled(nodes, l.threshold)
	if done {
		l.state = Settled
	} else {
		l.state = Animating
	}
	observability.Frame().OnFrame(len(nodes), done, time.Since(start))

	if !done || l.live {
		l.schedule()
	}
	return l.state
}

// RunUntilSettled drives frames synchronously, ignoring the scheduler, until
// the map settles or maxFrames frames ran. It returns the frames run.
func (l *Loop) RunUntilSettled(maxFrames int) int {
	l.withdraw()
	ran := 0
	for ran < maxFrames && !l.closed && l.root != nil {
		ran++
		state := l.Frame()
		l.withdraw()
		if state == Settled {
			break
		}
	}
	return ran
}

// State returns the current animation state.
func (l *Loop) State() State { return l.state }

// Pending reports whether a frame request is outstanding.
func (l *Loop) Pending() bool { return l.cancel != nil }

// Frames returns the number of frames drawn so far.
func (l *Loop) Frames() uint64 { return l.frames }

// Closed reports whether the loop was torn down.
func (l *Loop) Closed() bool { return l.closed }

// Close withdraws any pending frame request. The loop ignores every later
// call.
func (l *Loop) Close() {
	if l.closed {
		return
	}
	l.withdraw()
	l.closed = true
}

func (l *Loop) schedule() {
	if l.cancel != nil || l.sched == nil {
		return
	}
	l.cancel = l.sched.RequestFrame(l.tick)
}

func (l *Loop) tick() {
	l.cancel = nil
	l.Frame()
}

func (l *Loop) withdraw() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
