package render

// ManualScheduler queues frame requests until the host pumps them. Headless
// rendering and tests drive the loop with it.
type ManualScheduler struct {
	queue []*frameRequest
}

type frameRequest struct {
	fn        func()
	cancelled bool
}

// RequestFrame implements [Scheduler].
func (s *ManualScheduler) RequestFrame(fn func()) func() {
	req := &frameRequest{fn: fn}
	s.queue = append(s.queue, req)
	return func() { req.cancelled = true }
}

// Pending returns the number of live requests.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, r := range s.queue {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// Step runs the oldest live request. It reports false when nothing was
// pending.
func (s *ManualScheduler) Step() bool {
	for len(s.queue) > 0 {
		req := s.queue[0]
		s.queue = s.queue[1:]
		if req.cancelled {
			continue
		}
		req.fn()
		return true
	}
	return false
}

// Drain runs requests until none are pending or max ran. It returns the
// number run.
func (s *ManualScheduler) Drain(max int) int {
	ran := 0
	for ran < max && s.Step() {
		ran++
	}
	return ran
}
