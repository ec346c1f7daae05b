package layered

// FrameHandle identifies a frame callback requested from a FrameClock.
// The zero handle never identifies a pending frame.
type FrameHandle uint64

// FrameClock is the host's frame-presentation callback, abstracted so the
// scheduler can be driven by a window event loop or by a test.
//
// Implementations:
//   - ManualClock: frames run when the caller ticks it (tests, headless export)
//   - ggpresent.WindowClock: frames run from the host window's draw callback
type FrameClock interface {
	// RequestFrame arranges for fn to run once at the next frame.
	RequestFrame(fn func()) FrameHandle

	// CancelFrame drops a requested frame that has not run yet.
	// Unknown or already-run handles are ignored.
	CancelFrame(h FrameHandle)
}

type clockEntry struct {
	handle FrameHandle
	fn     func()
}

// ManualClock is a FrameClock that runs requested frames only when Tick is
// called. It makes frame scheduling deterministic.
//
// ManualClock is NOT safe for concurrent use.
type ManualClock struct {
	next    FrameHandle
	pending []clockEntry
	frames  uint64
}

// NewManualClock creates an idle ManualClock.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// RequestFrame implements FrameClock.
func (c *ManualClock) RequestFrame(fn func()) FrameHandle {
	c.next++
	c.pending = append(c.pending, clockEntry{handle: c.next, fn: fn})
	return c.next
}

// CancelFrame implements FrameClock.
func (c *ManualClock) CancelFrame(h FrameHandle) {
	for i, e := range c.pending {
		if e.handle == h {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// Tick runs every callback requested before the call, in request order.
// Callbacks requested while ticking run on the next Tick.
// It returns the number of callbacks run.
func (c *ManualClock) Tick() int {
	batch := c.pending
	c.pending = nil
	for _, e := range batch {
		e.fn()
	}
	c.frames++
	return len(batch)
}

// Pending returns the number of callbacks waiting for the next Tick.
func (c *ManualClock) Pending() int {
	return len(c.pending)
}

// Frames returns the number of Tick calls so far.
func (c *ManualClock) Frames() uint64 {
	return c.frames
}
