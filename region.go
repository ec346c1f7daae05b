package layered

import (
	"image"
	"math"
	"slices"
)

// MaxRegions is the number of merged regions above which a frame falls back
// to a single full-surface redraw. Many small rects cost more in per-region
// layer callbacks than one full pass.
const MaxRegions = 10

// Region is a rectangle in logical pixels that needs redraw.
type Region struct {
	X, Y, Width, Height float64
}

// Empty reports whether the region covers no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Overlaps reports whether r and o share interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Region) Overlaps(o Region) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Union returns the bounding box of r and o.
func (r Region) Union(o Region) Region {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.Width, o.X+o.Width)
	y1 := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether o lies entirely within r.
func (r Region) Contains(o Region) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// Device converts the region to a device-pixel rectangle at the given
// pixel ratio, expanding outward so partially covered pixels are included.
func (r Region) Device(ratio float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X*ratio)),
		int(math.Floor(r.Y*ratio)),
		int(math.Ceil((r.X+r.Width)*ratio)),
		int(math.Ceil((r.Y+r.Height)*ratio)),
	)
}

// MergeRegions reduces regions to a covering set of at most MaxRegions
// rectangles.
//
// The input is sorted by X and swept once from left to right. Each region is
// folded into the running accumulator when the two overlap, otherwise the
// accumulator is emitted and replaced. This is a greedy approximation:
// regions that overlap but are not neighbours in X order stay separate.
// When more than MaxRegions remain, the result is the single bounds region.
//
// The input slice is reordered in place.
func MergeRegions(regions []Region, bounds Region) []Region {
	if len(regions) == 0 {
		return nil
	}

	slices.SortFunc(regions, func(a, b Region) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})

	merged := make([]Region, 0, len(regions))
	current := regions[0]
	for _, next := range regions[1:] {
		if current.Overlaps(next) {
			current = current.Union(next)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	if len(merged) > MaxRegions {
		return []Region{bounds}
	}
	return merged
}

// RegionTracker accumulates dirty regions between frames.
//
// RegionTracker is NOT safe for concurrent use.
type RegionTracker struct {
	regions []Region
}

// Add queues a region. Empty regions are ignored.
func (t *RegionTracker) Add(r Region) {
	if r.Empty() {
		return
	}
	t.regions = append(t.regions, r)
}

// Replace discards all queued regions and queues r alone.
func (t *RegionTracker) Replace(r Region) {
	t.regions = append(t.regions[:0], r)
}

// Len returns the number of queued (unmerged) regions.
func (t *RegionTracker) Len() int {
	return len(t.regions)
}

// Regions returns a copy of the queued regions.
func (t *RegionTracker) Regions() []Region {
	return slices.Clone(t.regions)
}

// Reset drops all queued regions.
func (t *RegionTracker) Reset() {
	t.regions = t.regions[:0]
}

// Flush merges the queued regions against bounds and clears the queue.
func (t *RegionTracker) Flush(bounds Region) []Region {
	if len(t.regions) == 0 {
		return nil
	}
	merged := MergeRegions(slices.Clone(t.regions), bounds)
	t.regions = t.regions[:0]
	return merged
}
