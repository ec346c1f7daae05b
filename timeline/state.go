// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package timeline

import "math"

// State is the view and transport state of a timeline.
// Times are in seconds, Zoom is in logical pixels per second.
type State struct {
	ScrollX          float64
	ScrollY          float64
	Zoom             float64
	PlayheadPosition float64
	Duration         float64
	GridSnap         float64
	BPM              float64
}

// DefaultState returns a one-minute timeline at 120 BPM, 100 px/s, with a
// sixteenth-note grid.
func DefaultState() State {
	return State{
		Zoom:     100,
		Duration: 60,
		GridSnap: 0.125,
		BPM:      120,
	}
}

// TimeToX maps a time to a logical x coordinate.
func (s State) TimeToX(t float64) float64 {
	return t*s.Zoom - s.ScrollX
}

// XToTime maps a logical x coordinate to a time.
func (s State) XToTime(x float64) float64 {
	return (x + s.ScrollX) / s.Zoom
}

// BarDuration returns the length of a 4/4 bar in seconds.
func (s State) BarDuration() float64 {
	return 4 * 60 / s.BPM
}

// VisibleRange returns the time window shown in a viewport of the given
// logical width, limited to [0, Duration].
func (s State) VisibleRange(width float64) (start, end float64) {
	start = max(s.XToTime(0), 0)
	end = min(s.XToTime(width), s.Duration)
	return start, end
}

// Snap rounds t to the nearest grid line.
func (s State) Snap(t float64) float64 {
	return math.Round(t/s.GridSnap) * s.GridSnap
}

// viewChanged reports whether anything other than the playhead differs,
// which moves every grid line and content item.
func viewChanged(a, b State) bool {
	return a.ScrollX != b.ScrollX ||
		a.ScrollY != b.ScrollY ||
		a.Zoom != b.Zoom ||
		a.GridSnap != b.GridSnap ||
		a.BPM != b.BPM ||
		a.Duration != b.Duration
}

// positive reports whether v is a usable divisor.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
