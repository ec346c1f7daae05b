// Package layered renders z-ordered layers onto a gg drawing surface while
// keeping redraw cost proportional to what changed.
//
// # Overview
//
// A Renderer owns a set of layers. Each layer has its own backing surface and
// a DrawFunc that paints it. Callers invalidate either whole layers
// (MarkLayerDirty) or rectangles of the surface (MarkDirty); the renderer
// coalesces every invalidation before the next frame into a single Render.
//
//	dc := gg.NewContext(800, 200)
//	clock := layered.NewManualClock()
//	r, err := layered.New(dc, layered.DefaultConfig(800, 200), layered.WithFrameClock(clock))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	_ = r.AddLayer("background", 0, func(dc *gg.Context, _ *layered.Region) {
//	    dc.SetRGB(0.1, 0.1, 0.12)
//	    dc.DrawRectangle(0, 0, 800, 200)
//	    _ = dc.Fill()
//	})
//	r.MarkDirty(layered.Region{X: 10, Y: 0, Width: 20, Height: 20})
//	clock.Tick() // one Render for everything queued above
//
// # Frame algorithm
//
//  1. Nothing queued and no dirty layer: nothing happens.
//  2. Queued regions are merged (see MergeRegions) and the queue is cleared.
//  3. Dirty layers are cleared and repainted in full.
//  4. Each merged region is cleared on the primary surface and repainted,
//     clipped, on every other layer in z order.
//  5. All layers are composited onto the primary surface in z order.
//
// # Coordinates
//
// Regions and draw callbacks use logical pixels. Surfaces are allocated at
// device size (logical size times the pixel ratio) and callbacks receive a
// context already scaled by the ratio.
//
// # Frame clocks
//
// Scheduling goes through a FrameClock. ManualClock runs frames when ticked;
// the ggpresent sub-package provides a clock driven by a gogpu window.
//
// # Thread Safety
//
// Renderer is NOT safe for concurrent use. Frame callbacks must run on the
// goroutine that mutates the renderer.
package layered
