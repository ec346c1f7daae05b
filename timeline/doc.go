// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package timeline draws a scrollable, zoomable timeline with a grid, a
// content layer and a moving playhead on top of a layered.Renderer.
//
// Usage:
//
//	base, _ := layered.New(gg.NewContext(1, 1), layered.DefaultConfig(800, 120),
//	    layered.WithFrameClock(clock))
//	tl, err := timeline.New(base, timeline.WithContent(drawClips))
//	if err != nil {
//	    return err
//	}
//	defer tl.Close()
//
//	// During playback only two 10px strips and the playhead layer repaint.
//	tl.SetPlayhead(12.5)
//
//	// Any view change repaints grid and content.
//	tl.SetZoom(200)
//
// The grid draws minor lines every GridSnap seconds and bar lines every
// four beats at the current BPM, each bar labelled with its number.
package timeline
