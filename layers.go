package layered

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gg"
)

// DrawFunc paints one layer.
//
// dc is the layer's own backing surface with the device scale already
// applied, so the callback draws in logical pixels. region is nil for a
// full-layer draw; otherwise dc is clipped to it and the callback may skip
// anything outside it. Callbacks run synchronously, must not keep dc after
// returning, and must not call back into the Renderer.
type DrawFunc func(dc *gg.Context, region *Region)

// layer is a z-ordered backing surface with its draw callback.
type layer struct {
	id      string
	z       int
	seq     uint64
	surface *gg.Context
	draw    DrawFunc
	dirty   bool
	hidden  bool // drawn but not composited
}

// paint invokes the draw callback in logical coordinates, clipped to region
// when one is given.
func (l *layer) paint(ratio float64, region *Region) {
	dc := l.surface
	dc.Push()
	dc.Identity()
	dc.Scale(ratio, ratio)
	if region != nil {
		dc.ClipRect(region.X, region.Y, region.Width, region.Height)
	}
	l.draw(dc, region)
	_ = dc.FlushGPU()
	dc.ClearPath()
	dc.Pop()
}

// redraw clears the whole backing surface and paints the layer.
func (l *layer) redraw(ratio float64) {
	l.surface.Clear()
	l.paint(ratio, nil)
	l.dirty = false
}

// redrawRegion clears region on the backing surface and repaints it.
func (l *layer) redrawRegion(ratio float64, region Region) {
	l.surface.ResizeTarget().FillRect(region.Device(ratio), 0, 0, 0, 0)
	l.paint(ratio, &region)
}

// layerManager owns the layer registry of one Renderer.
// Layers are ordered by z, then by insertion order.
type layerManager struct {
	byID  map[string]*layer
	order []*layer // sorted cache, nil when stale
	seq   uint64
	alloc SurfaceAllocator
}

func newLayerManager(alloc SurfaceAllocator) *layerManager {
	return &layerManager{
		byID:  make(map[string]*layer),
		alloc: alloc,
	}
}

// add registers a layer with a freshly allocated surface. An existing layer
// with the same id is replaced. Nothing is registered on failure.
func (m *layerManager) add(id string, z int, draw DrawFunc, width, height int) error {
	surface, err := m.alloc(width, height)
	if err == nil && surface == nil {
		err = ErrSurfaceAllocation
	}
	if err != nil {
		return fmt.Errorf("%w: layer %q: %w", ErrSurfaceAllocation, id, err)
	}

	if old, ok := m.byID[id]; ok {
		_ = old.surface.Close()
	}

	m.seq++
	m.byID[id] = &layer{
		id:      id,
		z:       z,
		seq:     m.seq,
		surface: surface,
		draw:    draw,
		dirty:   true,
	}
	m.order = nil
	return nil
}

// remove deletes a layer and releases its surface.
func (m *layerManager) remove(id string) bool {
	l, ok := m.byID[id]
	if !ok {
		return false
	}
	_ = l.surface.Close()
	delete(m.byID, id)
	m.order = nil
	return true
}

func (m *layerManager) get(id string) *layer {
	return m.byID[id]
}

// sorted returns the layers in composite order.
func (m *layerManager) sorted() []*layer {
	if m.order == nil {
		m.order = make([]*layer, 0, len(m.byID))
		for _, l := range m.byID {
			m.order = append(m.order, l)
		}
		slices.SortFunc(m.order, func(a, b *layer) int {
			if c := cmp.Compare(a.z, b.z); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
	}
	return m.order
}

func (m *layerManager) anyDirty() bool {
	for _, l := range m.byID {
		if l.dirty {
			return true
		}
	}
	return false
}

// resize recreates every backing surface at the new device size and marks
// every layer dirty. Layers whose surface cannot be reallocated are dropped.
func (m *layerManager) resize(width, height int) error {
	var errs []error
	for id, l := range m.byID {
		surface, err := m.alloc(width, height)
		if err == nil && surface == nil {
			err = ErrSurfaceAllocation
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: layer %q: %w", ErrSurfaceAllocation, id, err))
			_ = l.surface.Close()
			delete(m.byID, id)
			m.order = nil
			continue
		}
		_ = l.surface.Close()
		l.surface = surface
		l.dirty = true
	}
	return errors.Join(errs...)
}

// release closes every surface and empties the registry.
func (m *layerManager) release() {
	for _, l := range m.byID {
		_ = l.surface.Close()
	}
	clear(m.byID)
	m.order = nil
}
