// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package timeline

import (
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/layered"
)

// Theme holds the colors and metrics of the default layers.
type Theme struct {
	Background gg.RGBA
	MinorLine  gg.RGBA
	MajorLine  gg.RGBA
	Label      gg.RGBA
	Playhead   gg.RGBA

	// LabelSize is the bar-number font size in logical pixels.
	// Zero disables labels.
	LabelSize float64

	// MinLineSpacing is the closest two minor lines may be drawn, in
	// logical pixels. Denser grids only draw bar lines.
	MinLineSpacing float64
}

// DefaultTheme returns a dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     gg.Hex("#1e1f24"),
		MinorLine:      gg.Hex("#2c2e35"),
		MajorLine:      gg.Hex("#4a4d58"),
		Label:          gg.Hex("#9aa0ad"),
		Playhead:       gg.Hex("#ff5a4e"),
		LabelSize:      11,
		MinLineSpacing: 4,
	}
}

var (
	labelOnce   sync.Once
	labelSource *text.FontSource
)

// labelFace returns a Go Regular face of the given size, or nil if the
// embedded font cannot be parsed.
func labelFace(size float64) text.Face {
	labelOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			layered.Logger().Warn("timeline: label font unavailable", "err", err)
			return
		}
		labelSource = src
	})
	if labelSource == nil || size <= 0 {
		return nil
	}
	return labelSource.Face(size)
}
