// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggpresent

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/layered"
)

// Common errors returned by Presenter operations.
var (
	// ErrNilRenderer is returned when a nil renderer is passed to New.
	ErrNilRenderer = errors.New("ggpresent: nil renderer")

	// ErrPresenterClosed is returned when Present is called after Close.
	ErrPresenterClosed = errors.New("ggpresent: presenter is closed")

	// ErrNoTextureCreator is returned when the drawer cannot create textures.
	ErrNoTextureCreator = errors.New("ggpresent: drawer has no texture creator")

	// ErrTextureCreationFailed is returned when the texture cannot be created.
	ErrTextureCreationFailed = errors.New("ggpresent: texture creation failed")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Stats counts texture uploads.
type Stats struct {
	Creates       uint64
	FullUploads   uint64
	RegionUploads uint64
	BytesUploaded uint64
}

// Presenter uploads a layered.Renderer's primary surface to a GPU texture
// and draws it with a gpucontext.TextureDrawer.
//
// Uploads are skipped when no frame was rendered since the last Present.
// When the texture implements gpucontext.TextureRegionUpdater only the
// rectangles reported by Renderer.TakeDamage are uploaded, covering every
// frame rendered since the last successful upload. A failed upload is
// retried by the next Present.
//
// Presenter is NOT safe for concurrent use.
type Presenter struct {
	r       *layered.Renderer
	texture gpucontext.Texture
	frame   uint64 // renderer frame count at the last upload
	pending []image.Rectangle
	scratch []byte
	stats   Stats
	closed  bool
}

// New creates a Presenter for r. The texture is created lazily on the
// first Present.
func New(r *layered.Renderer) (*Presenter, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	return &Presenter{r: r}, nil
}

// Format returns the pixel format of the uploaded data. Pixels are
// premultiplied.
func (p *Presenter) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Texture returns the current texture, or nil before the first Present.
func (p *Presenter) Texture() gpucontext.Texture {
	return p.texture
}

// Stats returns upload counters.
func (p *Presenter) Stats() Stats {
	return p.stats
}

// Present uploads what changed and draws the texture at (0, 0).
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    clock.Frame()
//	    _ = presenter.Present(dc.AsTextureDrawer())
//	})
func (p *Presenter) Present(dc gpucontext.TextureDrawer) error {
	return p.PresentAt(dc, 0, 0)
}

// PresentAt is like Present but draws the texture at (x, y).
func (p *Presenter) PresentAt(dc gpucontext.TextureDrawer, x, y float32) error {
	if p.closed {
		return ErrPresenterClosed
	}
	if err := p.upload(dc); err != nil {
		return err
	}
	return dc.DrawTexture(p.texture, x, y)
}

func (p *Presenter) upload(dc gpucontext.TextureDrawer) error {
	ctx := p.r.Context()
	// Non-fatal: CPU-rendered content is already in the pixmap.
	_ = ctx.FlushGPU()

	pm := ctx.ResizeTarget()
	w, h := pm.Width(), pm.Height()
	frame := p.r.Stats().Frames

	if p.texture == nil || p.texture.Width() != w || p.texture.Height() != h {
		return p.create(dc, w, h, pm.Data(), frame)
	}
	if frame == p.frame {
		return nil
	}

	p.pending = append(p.pending, p.r.TakeDamage()...)
	if err := p.write(pm.Data(), pm.Bounds()); err != nil {
		return err
	}
	p.pending = p.pending[:0]
	p.frame = frame
	return nil
}

// write uploads the pending damage, or the whole surface when the texture
// has no region updates or the damage is too large to be worth splitting.
func (p *Presenter) write(data []byte, bounds image.Rectangle) error {
	if ru, ok := p.texture.(gpucontext.TextureRegionUpdater); ok {
		if len(p.pending) <= layered.MaxRegions && !coversAll(p.pending, bounds) {
			return p.uploadRegions(ru, data, bounds, p.pending)
		}
	}

	u, ok := p.texture.(gpucontext.TextureUpdater)
	if !ok {
		return nil
	}
	if err := u.UpdateData(data); err != nil {
		return fmt.Errorf("ggpresent: texture update failed: %w", err)
	}
	p.stats.FullUploads++
	p.stats.BytesUploaded += uint64(len(data))
	return nil
}

func (p *Presenter) create(dc gpucontext.TextureDrawer, w, h int, data []byte, frame uint64) error {
	creator := dc.TextureCreator()
	if creator == nil {
		return ErrNoTextureCreator
	}
	tex, err := creator.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTextureCreationFailed, err)
	}
	// gg pixmaps are premultiplied.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}

	// NewTextureFromRGBA waits for the GPU, so the old texture is idle now.
	p.destroyTexture()
	p.texture = tex
	p.frame = frame
	p.pending = p.pending[:0]
	p.r.TakeDamage()
	p.stats.Creates++
	layered.Logger().Debug("ggpresent: texture created", "width", w, "height", h)
	return nil
}

// uploadRegions packs each damaged rectangle into scratch and uploads it.
func (p *Presenter) uploadRegions(ru gpucontext.TextureRegionUpdater, data []byte, bounds image.Rectangle, damage []image.Rectangle) error {
	stride := bounds.Dx() * 4
	for _, r := range damage {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}
		row := r.Dx() * 4
		need := row * r.Dy()
		if cap(p.scratch) < need {
			p.scratch = make([]byte, need)
		}
		buf := p.scratch[:need]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			off := y*stride + r.Min.X*4
			copy(buf[(y-r.Min.Y)*row:], data[off:off+row])
		}
		if err := ru.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), buf); err != nil {
			return fmt.Errorf("ggpresent: region update failed: %w", err)
		}
		p.stats.RegionUploads++
		p.stats.BytesUploaded += uint64(need)
	}
	return nil
}

func (p *Presenter) destroyTexture() {
	if p.texture == nil {
		return
	}
	if d, ok := p.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	p.texture = nil
}

// Close destroys the texture. The renderer is left open.
// Close is idempotent.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.destroyTexture()
	p.pending = nil
	p.scratch = nil
	return nil
}

// coversAll reports whether damage reaches the whole of bounds through a
// single rectangle.
func coversAll(damage []image.Rectangle, bounds image.Rectangle) bool {
	for _, r := range damage {
		if bounds.In(r) {
			return true
		}
	}
	return false
}
