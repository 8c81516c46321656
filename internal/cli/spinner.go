package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a one-line status on a terminal while a render runs.
// It clears its line and exits when stopped or when its context ends.
type Spinner struct {
	parent context.Context
	w      io.Writer

	mu      sync.Mutex
	message string

	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
	start  sync.Once
}

// newSpinner returns a spinner on stderr.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		parent:  ctx,
		w:       w,
		message: message,
		ctx:     inner,
		cancel:  cancel,
		exited:  make(chan struct{}),
	}
}

// Start begins drawing. Calling it more than once has no effect.
func (s *Spinner) Start() {
	s.start.Do(func() { go s.loop() })
}

func (s *Spinner) loop() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.draw("\r\x1b[K")
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.draw(fmt.Sprintf("\r%s %s\x1b[K", styleSpinner.Render(frame), StyleDim.Render(msg)))
		}
	}
}

func (s *Spinner) draw(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.w, text)
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop halts the animation and clears the line. It is safe to call more
// than once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		started := true
		s.start.Do(func() { started = false })
		if started {
			<-s.exited
		}
	})
}

func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	newConsole(s.w).success("%s", message)
}

func (s *Spinner) StopWithError(message string) {
	s.Stop()
	newConsole(s.w).fail("%s", message)
}

// Cancelled reports whether the spinner's parent context has ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
