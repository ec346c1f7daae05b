package layered

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gg"
)

// Stats reports what the renderer has done so far.
type Stats struct {
	// Frames is the number of Render calls that did work.
	Frames uint64

	// RegionsDrawn is the total number of merged regions repainted.
	RegionsDrawn uint64

	// LayerRedraws is the total number of full-layer repaints.
	LayerRedraws uint64

	// FullSurface counts frames that repainted the whole surface as one
	// region, either from MarkAllDirty or from the MaxRegions fallback.
	FullSurface uint64
}

// Renderer composites z-ordered layers onto a primary surface, repainting
// only what was invalidated since the previous frame.
//
// Invalidation (MarkDirty, MarkLayerDirty, MarkAllDirty, AddLayer, Resize)
// arms at most one frame on the FrameClock; the frame runs Render once.
//
// Renderer is NOT safe for concurrent use. All calls, including the clock's
// frame callbacks, must come from one goroutine.
type Renderer struct {
	primary   *gg.Context
	offscreen *gg.Context

	width  int
	height int
	ratio  float64

	dirtyRects bool
	clearColor gg.RGBA

	regions   RegionTracker
	layers    *layerManager
	scheduler *frameScheduler
	clock     FrameClock

	damage []image.Rectangle
	unseen []image.Rectangle // damage not yet taken by TakeDamage
	stats  Stats
	closed bool
}

// New creates a Renderer drawing onto primary.
//
// The primary surface is resized to the device size of cfg. Failure to use
// the primary surface is fatal. Failure to allocate the offscreen surface is
// logged and leaves Offscreen returning nil.
func New(primary *gg.Context, cfg Config, opts ...Option) (*Renderer, error) {
	if primary == nil {
		return nil, ErrNilSurface
	}
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewManualClock()
	}

	r := &Renderer{
		primary:    primary,
		width:      cfg.Width,
		height:     cfg.Height,
		ratio:      cfg.PixelRatio,
		dirtyRects: cfg.EnableDirtyRects,
		clearColor: o.clearColor,
		layers:     newLayerManager(o.alloc),
		clock:      o.clock,
	}
	r.scheduler = newFrameScheduler(o.clock, r.Render)

	dw, dh := r.deviceSize()
	if err := primary.Resize(dw, dh); err != nil {
		return nil, fmt.Errorf("%w: primary surface: %w", ErrSurfaceAllocation, err)
	}

	if cfg.EnableOffscreen {
		off, err := o.alloc(dw, dh)
		if err != nil || off == nil {
			Logger().Warn("layered: offscreen surface unavailable", "err", err)
		} else {
			r.offscreen = off
		}
	}

	Logger().Info("layered: renderer created",
		"width", r.width, "height", r.height, "pixelRatio", r.ratio,
		"offscreen", r.offscreen != nil, "dirtyRects", r.dirtyRects)
	return r, nil
}

// Width returns the logical width.
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the logical height.
func (r *Renderer) Height() int {
	return r.height
}

// PixelRatio returns the number of device pixels per logical pixel.
func (r *Renderer) PixelRatio() float64 {
	return r.ratio
}

// Context returns the primary surface.
func (r *Renderer) Context() *gg.Context {
	return r.primary
}

// Offscreen returns the secondary surface, or nil if it was not requested
// or could not be allocated.
func (r *Renderer) Offscreen() *gg.Context {
	return r.offscreen
}

// Clock returns the FrameClock driving scheduled frames.
func (r *Renderer) Clock() FrameClock {
	return r.clock
}

// Bounds returns the full logical surface as a Region.
func (r *Renderer) Bounds() Region {
	return Region{X: 0, Y: 0, Width: float64(r.width), Height: float64(r.height)}
}

func (r *Renderer) deviceSize() (int, int) {
	return deviceSize(r.width, r.height, r.ratio)
}

// AddLayer registers a layer drawn by draw at z order z and schedules a
// frame. A layer with the same id is replaced.
//
// If the backing surface cannot be allocated, no layer is registered and the
// error wraps ErrSurfaceAllocation.
func (r *Renderer) AddLayer(id string, z int, draw DrawFunc) error {
	if r.closed {
		return ErrClosed
	}
	dw, dh := r.deviceSize()
	if err := r.layers.add(id, z, draw, dw, dh); err != nil {
		Logger().Warn("layered: layer not added", "id", id, "err", err)
		return err
	}
	r.ScheduleRender()
	return nil
}

// RemoveLayer deletes a layer. Unknown ids are ignored.
func (r *Renderer) RemoveLayer(id string) {
	if r.closed {
		return
	}
	if r.layers.remove(id) {
		r.MarkAllDirty()
	}
}

// HasLayer reports whether a layer with id is registered.
func (r *Renderer) HasLayer(id string) bool {
	return r.layers.get(id) != nil
}

// IsLayerDirty reports whether the layer is waiting for a full repaint.
func (r *Renderer) IsLayerDirty(id string) bool {
	l := r.layers.get(id)
	return l != nil && l.dirty
}

// SetLayerVisible shows or hides a layer. Hidden layers keep being drawn
// but are left out of compositing. Unknown ids are ignored.
func (r *Renderer) SetLayerVisible(id string, visible bool) {
	if r.closed {
		return
	}
	l := r.layers.get(id)
	if l == nil || l.hidden == !visible {
		return
	}
	l.hidden = !visible
	r.MarkAllDirty()
}

// IsLayerVisible reports whether a layer exists and is composited.
func (r *Renderer) IsLayerVisible(id string) bool {
	l := r.layers.get(id)
	return l != nil && !l.hidden
}

// Layers returns the layer ids in composite order.
func (r *Renderer) Layers() []string {
	sorted := r.layers.sorted()
	ids := make([]string, len(sorted))
	for i, l := range sorted {
		ids[i] = l.id
	}
	return ids
}

// MarkLayerDirty flags a layer for a full repaint and schedules a frame.
// Unknown ids are ignored.
func (r *Renderer) MarkLayerDirty(id string) {
	if r.closed {
		return
	}
	l := r.layers.get(id)
	if l == nil {
		return
	}
	l.dirty = true
	r.ScheduleRender()
}

// MarkDirty queues a logical-pixel region for repaint and schedules a frame.
// Empty regions are ignored. With dirty rects disabled the whole surface is
// invalidated instead.
func (r *Renderer) MarkDirty(region Region) {
	if r.closed || region.Empty() {
		return
	}
	if !r.dirtyRects {
		r.MarkAllDirty()
		return
	}
	r.regions.Add(region)
	r.ScheduleRender()
}

// MarkAllDirty replaces the queued regions with the full logical surface.
func (r *Renderer) MarkAllDirty() {
	if r.closed {
		return
	}
	r.regions.Replace(r.Bounds())
	r.ScheduleRender()
}

// PendingRegions returns a copy of the regions queued for the next frame,
// before merging.
func (r *Renderer) PendingRegions() []Region {
	return r.regions.Regions()
}

// ScheduleRender arms a frame on the clock. Calls while a frame is pending
// are coalesced into it.
func (r *Renderer) ScheduleRender() {
	if r.closed {
		return
	}
	r.scheduler.schedule()
}

// FramePending reports whether a frame is armed on the clock.
func (r *Renderer) FramePending() bool {
	return r.scheduler.isPending()
}

// CancelRender drops the pending frame, if any, without rendering.
// Queued regions and dirty flags are kept for the next frame.
func (r *Renderer) CancelRender() {
	r.scheduler.cancel()
}

// ForceRender cancels the pending frame and renders synchronously.
func (r *Renderer) ForceRender() {
	if r.closed {
		return
	}
	r.scheduler.force()
}

// Resize changes the logical size. Every layer surface is recreated at the
// new device size and marked dirty, and the whole surface is invalidated.
//
// Layers whose surface cannot be recreated are removed; their errors are
// joined into the returned error.
func (r *Renderer) Resize(width, height int) error {
	if r.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	r.width = width
	r.height = height
	dw, dh := r.deviceSize()

	if err := r.primary.Resize(dw, dh); err != nil {
		return fmt.Errorf("%w: primary surface: %w", ErrSurfaceAllocation, err)
	}
	if r.offscreen != nil {
		if err := r.offscreen.Resize(dw, dh); err != nil {
			Logger().Warn("layered: offscreen surface dropped on resize", "err", err)
			_ = r.offscreen.Close()
			r.offscreen = nil
		}
	}

	err := r.layers.resize(dw, dh)
	if err != nil {
		Logger().Warn("layered: layers dropped on resize", "err", err)
	}
	Logger().Info("layered: resized", "width", width, "height", height, "deviceWidth", dw, "deviceHeight", dh)

	r.MarkAllDirty()
	return err
}

// Render runs one frame. It is normally called by the scheduled frame, but
// may be called directly.
//
// Layers flagged dirty are cleared and repainted in full. Every queued region
// (after merging) is cleared on the primary surface and repainted on every
// other layer in z order. Finally all layers are composited onto the primary
// surface.
//
// Region/layer intersection is not tracked: every layer is repainted for every
// region, so draw callbacks must be idempotent over their own bounds.
func (r *Renderer) Render() {
	if r.closed {
		return
	}
	if r.regions.Len() == 0 && !r.layers.anyDirty() {
		return
	}

	merged := r.regions.Flush(r.Bounds())
	layers := r.layers.sorted()
	r.damage = r.damage[:0]

	repainted := make([]bool, len(layers))
	var redrawn int
	for i, l := range layers {
		if l.dirty {
			l.redraw(r.ratio)
			repainted[i] = true
			redrawn++
		}
	}
	r.stats.LayerRedraws += uint64(redrawn)

	primary := r.primary.ResizeTarget()
	for _, region := range merged {
		dev := region.Device(r.ratio)
		r.fillPrimary(primary, dev)
		for i, l := range layers {
			if repainted[i] {
				continue
			}
			l.redrawRegion(r.ratio, region)
		}
		r.damage = append(r.damage, dev.Intersect(primary.Bounds()))
	}
	r.stats.RegionsDrawn += uint64(len(merged))
	if len(merged) == 1 && merged[0] == r.Bounds() {
		r.stats.FullSurface++
	}

	r.composite(layers)
	if redrawn > 0 {
		r.damage = append(r.damage[:0], primary.Bounds())
	}
	r.collectDamage(primary.Bounds())
	r.stats.Frames++

	Logger().Debug("layered: frame",
		"regions", len(merged), "layerRedraws", redrawn, "layers", len(layers))
}

// fillPrimary clears a device rectangle of the primary surface.
func (r *Renderer) fillPrimary(pm *gg.Pixmap, rect image.Rectangle) {
	c := r.clearColor.Premultiply()
	pm.FillRect(rect, to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

// composite clears the primary surface and draws every visible layer over
// it in order. Surfaces share the device size, so layers are copied 1:1.
func (r *Renderer) composite(layers []*layer) {
	pm := r.primary.ResizeTarget()
	pm.Clear(r.clearColor)
	dst := pixmapImage(pm)
	for _, l := range layers {
		if l.hidden {
			continue
		}
		src := pixmapImage(l.surface.ResizeTarget())
		draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Over)
	}
	pm.NotifyPixelsChanged()
}

// Damage returns the device-pixel rectangles of the primary surface that
// changed in the last frame. A full-layer repaint reports the whole surface.
// The slice is reused by the next frame.
func (r *Renderer) Damage() []image.Rectangle {
	return r.damage
}

// TakeDamage returns the device-pixel rectangles changed by every frame
// rendered since the previous call, and forgets them. Presenters that may
// miss frames use it instead of Damage. More than MaxRegions rectangles
// collapse into the whole surface.
func (r *Renderer) TakeDamage() []image.Rectangle {
	d := r.unseen
	r.unseen = nil
	return d
}

// collectDamage folds the last frame's damage into the untaken set.
func (r *Renderer) collectDamage(bounds image.Rectangle) {
	if len(r.unseen) == 1 && bounds.In(r.unseen[0]) {
		return
	}
	for _, d := range r.damage {
		if d.Empty() {
			continue
		}
		if bounds.In(d) || len(r.unseen) >= MaxRegions {
			r.unseen = append(r.unseen[:0], bounds)
			return
		}
		r.unseen = append(r.unseen, d)
	}
}

// Stats returns frame counters.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Close cancels any pending frame, releases every layer and the offscreen
// surface, and drops queued regions. The primary surface belongs to the
// caller and is left open. Close is idempotent.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.scheduler.cancel()
	r.layers.release()
	r.regions.Reset()
	if r.offscreen != nil {
		_ = r.offscreen.Close()
		r.offscreen = nil
	}
	r.damage = nil
	r.unseen = nil
	r.closed = true
	Logger().Info("layered: renderer closed")
	return nil
}

// pixmapImage views a pixmap's premultiplied buffer as an *image.RGBA
// without copying.
func pixmapImage(pm *gg.Pixmap) *image.RGBA {
	return &image.RGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
