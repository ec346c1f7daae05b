package layered

// frameScheduler coalesces render requests into at most one pending frame.
type frameScheduler struct {
	clock   FrameClock
	pending FrameHandle
	armed   bool
	render  func()
}

func newFrameScheduler(clock FrameClock, render func()) *frameScheduler {
	return &frameScheduler{clock: clock, render: render}
}

// schedule arms a frame unless one is already pending.
func (s *frameScheduler) schedule() {
	if s.armed {
		return
	}
	s.armed = true
	s.pending = s.clock.RequestFrame(s.fire)
}

// fire is the clock callback. The handle is released before rendering so a
// render that invalidates again arms a fresh frame.
func (s *frameScheduler) fire() {
	s.armed = false
	s.pending = 0
	s.render()
}

// cancel drops the pending frame, if any.
func (s *frameScheduler) cancel() {
	if !s.armed {
		return
	}
	s.clock.CancelFrame(s.pending)
	s.armed = false
	s.pending = 0
}

// force cancels the pending frame and renders synchronously.
func (s *frameScheduler) force() {
	s.cancel()
	s.render()
}

func (s *frameScheduler) isPending() bool {
	return s.armed
}
