// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggpresent

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/layered"
)

// WindowClock is a layered.FrameClock driven by a gogpu window.
//
// RequestFrame queues the callback and asks the window for a redraw, once
// per batch. The host runs the batch by calling Frame from its draw
// callback, before presenting.
//
// WindowClock is NOT safe for concurrent use; call it from the window's
// event goroutine.
type WindowClock struct {
	win       gpucontext.WindowProvider
	queue     *layered.ManualClock
	requested bool
}

// NewWindowClock creates a clock for win. A nil win gets a
// gpucontext.NullWindowProvider, whose RequestRedraw does nothing.
func NewWindowClock(win gpucontext.WindowProvider) *WindowClock {
	if win == nil {
		win = gpucontext.NullWindowProvider{}
	}
	return &WindowClock{
		win:   win,
		queue: layered.NewManualClock(),
	}
}

// RequestFrame implements layered.FrameClock.
func (c *WindowClock) RequestFrame(fn func()) layered.FrameHandle {
	h := c.queue.RequestFrame(fn)
	if !c.requested {
		c.requested = true
		c.win.RequestRedraw()
	}
	return h
}

// CancelFrame implements layered.FrameClock.
func (c *WindowClock) CancelFrame(h layered.FrameHandle) {
	c.queue.CancelFrame(h)
}

// Frame runs the callbacks requested before this call and returns how many
// ran. Callbacks requested while it runs request a new redraw.
func (c *WindowClock) Frame() int {
	c.requested = false
	return c.queue.Tick()
}

// Pending returns the number of queued callbacks.
func (c *WindowClock) Pending() int {
	return c.queue.Pending()
}

// ConfigFor returns a layered.DefaultConfig sized to the window's client
// area at its scale factor.
func ConfigFor(win gpucontext.WindowProvider) layered.Config {
	w, h := win.Size()
	cfg := layered.DefaultConfig(w, h)
	cfg.PixelRatio = win.ScaleFactor()
	return cfg
}
