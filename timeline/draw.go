// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package timeline

import (
	"math"
	"strconv"

	"github.com/gogpu/gg"

	"github.com/gogpu/layered"
)

const (
	playheadWidth = 2
	markerHeight  = 8
	labelMargin   = 3
	maxGridLines  = 4096
	maxGridIndex  = 1 << 52
)

// span returns the horizontal extent to paint: the region if any, else the
// whole surface.
func (t *Renderer) span(region *layered.Region) (x0, x1 float64) {
	if region != nil {
		return region.X, region.X + region.Width
	}
	return 0, float64(t.base.Width())
}

func (t *Renderer) drawGrid(dc *gg.Context, region *layered.Region) {
	s := t.state
	w, h := float64(t.base.Width()), float64(t.base.Height())
	x0, x1 := t.span(region)

	dc.SetColor(t.theme.Background)
	dc.DrawRectangle(x0, 0, x1-x0, h)
	_ = dc.Fill()

	start, end := s.VisibleRange(w)
	// One pixel of slack so lines straddling the region edge are kept.
	start = max(start, s.XToTime(x0-1))
	end = min(end, s.XToTime(x1+1))
	if end < start {
		return
	}

	bar := s.BarDuration()
	if s.GridSnap*s.Zoom >= t.theme.MinLineSpacing {
		dc.SetColor(t.theme.MinorLine)
		dc.SetLineWidth(1)
		gridLines(start, end, s.GridSnap, func(_ int, sec float64) {
			if isMultiple(sec, bar) {
				return
			}
			x := math.Round(s.TimeToX(sec)) + 0.5
			dc.DrawLine(x, 0, x, h)
		})
		_ = dc.Stroke()
	}

	dc.SetColor(t.theme.MajorLine)
	dc.SetLineWidth(1)
	gridLines(start, end, bar, func(_ int, sec float64) {
		x := math.Round(s.TimeToX(sec)) + 0.5
		dc.DrawLine(x, 0, x, h)
	})
	_ = dc.Stroke()

	if t.face == nil {
		return
	}
	dc.SetFont(t.face)
	dc.SetColor(t.theme.Label)
	_, lh := dc.MeasureString("0")
	gridLines(start, end, bar, func(k int, sec float64) {
		x := math.Round(s.TimeToX(sec))
		dc.DrawString(strconv.Itoa(k+1), x+labelMargin, labelMargin+lh)
	})
}

func (t *Renderer) drawContent(dc *gg.Context, region *layered.Region) {
	if t.content == nil {
		return
	}
	t.content(dc, region, t.state)
}

func (t *Renderer) drawPlayhead(dc *gg.Context, _ *layered.Region) {
	s := t.state
	w, h := float64(t.base.Width()), float64(t.base.Height())
	x := s.TimeToX(s.PlayheadPosition)
	if x < 0 || x > w {
		return
	}

	dc.SetColor(t.theme.Playhead)
	dc.DrawRectangle(x-playheadWidth/2, 0, playheadWidth, h)
	_ = dc.Fill()

	dc.MoveTo(x-PlayheadHalfWidth, 0)
	dc.LineTo(x+PlayheadHalfWidth, 0)
	dc.LineTo(x, markerHeight)
	dc.ClosePath()
	_ = dc.Fill()
}

// gridLines calls fn for every multiple k*step in [start, end].
// Iterating on k keeps positions free of accumulated rounding error.
// Indexes beyond maxGridIndex, where floats stop being exact integers,
// produce no lines.
func gridLines(start, end, step float64, fn func(k int, sec float64)) {
	first := math.Ceil(start/step - 1e-9)
	last := math.Floor(end/step + 1e-9)
	if !(first <= last) || math.Abs(first) > maxGridIndex {
		return
	}
	last = min(last, first+maxGridLines, maxGridIndex)
	for k := int(first); k <= int(last); k++ {
		fn(k, float64(k)*step)
	}
}

func isMultiple(v, step float64) bool {
	q := v / step
	return math.Abs(q-math.Round(q)) < 1e-9
}
