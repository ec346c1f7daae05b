// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggpresent

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/layered"
)

// mockWindow implements gpucontext.WindowProvider and counts redraw requests.
type mockWindow struct {
	gpucontext.NullWindowProvider
	redraws int
}

func (m *mockWindow) RequestRedraw() { m.redraws++ }

var _ layered.FrameClock = (*WindowClock)(nil)

func TestWindowClockOneRedrawPerBatch(t *testing.T) {
	win := &mockWindow{}
	c := NewWindowClock(win)

	ran := 0
	c.RequestFrame(func() { ran++ })
	c.RequestFrame(func() { ran++ })
	c.RequestFrame(func() { ran++ })
	if win.redraws != 1 {
		t.Fatalf("redraws = %d, want 1", win.redraws)
	}
	if c.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", c.Pending())
	}

	if n := c.Frame(); n != 3 || ran != 3 {
		t.Errorf("Frame() = %d, ran = %d, want 3 and 3", n, ran)
	}

	c.RequestFrame(func() {})
	if win.redraws != 2 {
		t.Errorf("redraws after next request = %d, want 2", win.redraws)
	}
}

func TestWindowClockCancel(t *testing.T) {
	win := &mockWindow{}
	c := NewWindowClock(win)
	ran := false
	h := c.RequestFrame(func() { ran = true })
	c.CancelFrame(h)

	if c.Frame() != 0 || ran {
		t.Error("cancelled callback should not run")
	}
}

func TestWindowClockRequestDuringFrame(t *testing.T) {
	win := &mockWindow{}
	c := NewWindowClock(win)
	c.RequestFrame(func() {
		c.RequestFrame(func() {})
	})

	c.Frame()
	if win.redraws != 2 {
		t.Errorf("redraws = %d, want 2 (callback re-armed)", win.redraws)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}
}

func TestWindowClockNilWindow(t *testing.T) {
	c := NewWindowClock(nil)
	ran := false
	c.RequestFrame(func() { ran = true })
	c.Frame()
	if !ran {
		t.Error("callback did not run")
	}
}

func TestWindowClockDrivesRenderer(t *testing.T) {
	win := &mockWindow{NullWindowProvider: gpucontext.NullWindowProvider{W: 64, H: 32, SF: 2}}
	clock := NewWindowClock(win)
	r, err := layered.New(gg.NewContext(1, 1), ConfigFor(win), layered.WithFrameClock(clock))
	if err != nil {
		t.Fatalf("layered.New() error = %v", err)
	}
	defer r.Close()

	if r.Width() != 64 || r.Height() != 32 || r.PixelRatio() != 2 {
		t.Errorf("renderer = %dx%d@%g, want 64x32@2", r.Width(), r.Height(), r.PixelRatio())
	}

	_ = r.AddLayer("bg", 0, func(*gg.Context, *layered.Region) {})
	r.MarkDirty(layered.Region{X: 0, Y: 0, Width: 4, Height: 4})
	r.MarkDirty(layered.Region{X: 8, Y: 0, Width: 4, Height: 4})
	if win.redraws != 1 {
		t.Errorf("redraws = %d, want 1", win.redraws)
	}

	clock.Frame()
	if r.Stats().Frames != 1 {
		t.Errorf("Frames = %d, want 1", r.Stats().Frames)
	}
	if r.FramePending() {
		t.Error("FramePending() after Frame = true")
	}
}
