// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package timeline

import (
	"errors"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/layered"
)

// Layer ids and z orders of the default layers.
const (
	LayerGrid     = "grid"
	LayerContent  = "content"
	LayerPlayhead = "playhead"

	ZGrid     = 0
	ZContent  = 1
	ZPlayhead = 2
)

// PlayheadHalfWidth is half the width of the strip invalidated around the
// playhead when it moves.
const PlayheadHalfWidth = 5

// ErrNilRenderer is returned by New when no layered renderer is given.
var ErrNilRenderer = errors.New("timeline: nil renderer")

// ContentFunc draws the content layer. state is the state at draw time.
type ContentFunc func(dc *gg.Context, region *layered.Region, state State)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	state   State
	theme   Theme
	face    text.Face
	faceSet bool
	content ContentFunc
}

func defaultOptions() options {
	return options{
		state: DefaultState(),
		theme: DefaultTheme(),
	}
}

// WithState sets the initial state. Invalid Zoom, GridSnap or BPM values
// fall back to DefaultState.
func WithState(s State) Option {
	return func(o *options) {
		o.state = s
	}
}

// WithTheme sets the colors of the default layers.
func WithTheme(t Theme) Option {
	return func(o *options) {
		o.theme = t
	}
}

// WithLabelFace sets the bar-number font. A nil face disables labels.
// By default Go Regular at Theme.LabelSize is used.
func WithLabelFace(face text.Face) Option {
	return func(o *options) {
		o.face = face
		o.faceSet = true
	}
}

// WithContent sets the content layer drawer.
func WithContent(fn ContentFunc) Option {
	return func(o *options) {
		o.content = fn
	}
}

// Renderer draws a scrollable, zoomable timeline on a layered.Renderer:
// a grid layer, a caller-supplied content layer and a playhead layer.
//
// State changes go through UpdateState, which invalidates as little as it
// can: a playhead move only repaints two narrow strips and the playhead
// layer, anything else repaints the grid and content.
//
// Renderer is NOT safe for concurrent use.
type Renderer struct {
	base    *layered.Renderer
	state   State
	theme   Theme
	face    text.Face
	content ContentFunc
	closed  bool
}

// New registers the default layers on base. The Renderer takes ownership of
// base and closes it on Close.
func New(base *layered.Renderer, opts ...Option) (*Renderer, error) {
	if base == nil {
		return nil, ErrNilRenderer
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Renderer{
		base:    base,
		state:   sanitize(DefaultState(), o.state),
		theme:   o.theme,
		face:    o.face,
		content: o.content,
	}
	if !o.faceSet {
		t.face = labelFace(o.theme.LabelSize)
	}

	layers := []struct {
		id   string
		z    int
		draw layered.DrawFunc
	}{
		{LayerGrid, ZGrid, t.drawGrid},
		{LayerContent, ZContent, t.drawContent},
		{LayerPlayhead, ZPlayhead, t.drawPlayhead},
	}
	for i, l := range layers {
		if err := base.AddLayer(l.id, l.z, l.draw); err != nil {
			for _, added := range layers[:i] {
				base.RemoveLayer(added.id)
			}
			return nil, err
		}
	}
	return t, nil
}

// Base returns the underlying layered renderer.
func (t *Renderer) Base() *layered.Renderer {
	return t.base
}

// State returns a copy of the current state.
func (t *Renderer) State() State {
	return t.state
}

// Theme returns the current theme.
func (t *Renderer) Theme() Theme {
	return t.theme
}

// SetTheme replaces the theme and repaints every layer.
func (t *Renderer) SetTheme(theme Theme) {
	if t.closed {
		return
	}
	t.theme = theme
	t.markLayers(LayerGrid, LayerContent, LayerPlayhead)
}

// SetContentDrawer replaces the content layer drawer. nil restores the
// empty default.
func (t *Renderer) SetContentDrawer(fn ContentFunc) {
	if t.closed {
		return
	}
	t.content = fn
	t.base.MarkLayerDirty(LayerContent)
}

// UpdateState applies mutate to a copy of the state and invalidates what
// the change affects.
//
// Non-positive Zoom, GridSnap or BPM, negative Duration and non-finite
// values are rejected: the previous value is kept and a warning is logged.
func (t *Renderer) UpdateState(mutate func(*State)) {
	if t.closed || mutate == nil {
		return
	}
	prev := t.state
	next := prev
	mutate(&next)
	next = sanitize(prev, next)
	t.state = next

	switch {
	case viewChanged(prev, next):
		layered.Logger().Debug("timeline: view changed", "zoom", next.Zoom, "scrollX", next.ScrollX)
		t.markLayers(LayerGrid, LayerContent, LayerPlayhead)
	case prev.PlayheadPosition != next.PlayheadPosition:
		h := float64(t.base.Height())
		t.base.MarkDirty(playheadStrip(prev.TimeToX(prev.PlayheadPosition), h))
		t.base.MarkDirty(playheadStrip(next.TimeToX(next.PlayheadPosition), h))
		t.base.MarkLayerDirty(LayerPlayhead)
	}
}

// SetPlayhead moves the playhead to position seconds.
func (t *Renderer) SetPlayhead(position float64) {
	t.UpdateState(func(s *State) { s.PlayheadPosition = position })
}

// SetZoom sets the zoom in pixels per second.
func (t *Renderer) SetZoom(zoom float64) {
	t.UpdateState(func(s *State) { s.Zoom = zoom })
}

// ScrollTo sets both scroll offsets in logical pixels.
func (t *Renderer) ScrollTo(x, y float64) {
	t.UpdateState(func(s *State) {
		s.ScrollX = x
		s.ScrollY = y
	})
}

// TimeToX maps a time to a logical x coordinate under the current state.
func (t *Renderer) TimeToX(sec float64) float64 {
	return t.state.TimeToX(sec)
}

// XToTime maps a logical x coordinate to a time under the current state.
func (t *Renderer) XToTime(x float64) float64 {
	return t.state.XToTime(x)
}

// SnapTime rounds sec to the nearest grid line.
func (t *Renderer) SnapTime(sec float64) float64 {
	return t.state.Snap(sec)
}

// VisibleRange returns the time window currently on screen.
func (t *Renderer) VisibleRange() (start, end float64) {
	return t.state.VisibleRange(float64(t.base.Width()))
}

// Resize changes the logical size of the underlying renderer.
func (t *Renderer) Resize(width, height int) error {
	return t.base.Resize(width, height)
}

// Close releases the underlying renderer. Close is idempotent.
func (t *Renderer) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.base.Close()
}

func (t *Renderer) markLayers(ids ...string) {
	for _, id := range ids {
		t.base.MarkLayerDirty(id)
	}
}

// playheadStrip is the region a playhead at x occupies.
func playheadStrip(x, height float64) layered.Region {
	return layered.Region{
		X:      x - PlayheadHalfWidth,
		Y:      0,
		Width:  2 * PlayheadHalfWidth,
		Height: height,
	}
}

// sanitize returns next with every invalid field replaced by prev's value.
func sanitize(prev, next State) State {
	reject := func(field string, v float64) {
		layered.Logger().Warn("timeline: invalid state value ignored", "field", field, "value", v)
	}
	if !positive(next.Zoom) {
		reject("Zoom", next.Zoom)
		next.Zoom = prev.Zoom
	}
	if !positive(next.GridSnap) {
		reject("GridSnap", next.GridSnap)
		next.GridSnap = prev.GridSnap
	}
	if !positive(next.BPM) {
		reject("BPM", next.BPM)
		next.BPM = prev.BPM
	}
	if !(next.Duration >= 0) || math.IsInf(next.Duration, 1) {
		reject("Duration", next.Duration)
		next.Duration = prev.Duration
	}
	if !finite(next.ScrollX) {
		reject("ScrollX", next.ScrollX)
		next.ScrollX = prev.ScrollX
	}
	if !finite(next.ScrollY) {
		reject("ScrollY", next.ScrollY)
		next.ScrollY = prev.ScrollY
	}
	if !finite(next.PlayheadPosition) {
		reject("PlayheadPosition", next.PlayheadPosition)
		next.PlayheadPosition = prev.PlayheadPosition
	}
	return next
}
