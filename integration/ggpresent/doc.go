// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggpresent connects a layered.Renderer to a gogpu window.
//
// WindowClock schedules renderer frames through the window's redraw
// requests, and Presenter uploads the rendered surface to a GPU texture and
// draws it. Only the gpucontext interfaces are used, so the package does
// not depend on gogpu itself.
//
// # Quick Start
//
//	clock := ggpresent.NewWindowClock(app)
//	r, err := layered.New(gg.NewContext(1, 1), ggpresent.ConfigFor(app),
//	    layered.WithFrameClock(clock))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	presenter, _ := ggpresent.New(r)
//	defer presenter.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    clock.Frame()
//	    if err := presenter.Present(dc.AsTextureDrawer()); err != nil {
//	        log.Printf("present: %v", err)
//	    }
//	})
//
// # Partial uploads
//
// After a frame that only repainted dirty regions, Presenter uploads just
// those rectangles when the texture implements
// gpucontext.TextureRegionUpdater. Full-layer repaints upload the whole
// surface with gpucontext.TextureUpdater.
//
// # Thread Safety
//
// Neither type is safe for concurrent use.
package ggpresent
