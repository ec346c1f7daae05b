package layered

import (
	"image"
	"math/rand"
	"testing"
)

var testBounds = Region{X: 0, Y: 0, Width: 800, Height: 600}

func TestRegionOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		want bool
	}{
		{"overlapping x", Region{10, 0, 20, 20}, Region{25, 0, 20, 20}, true},
		{"contained", Region{0, 0, 100, 100}, Region{10, 10, 5, 5}, true},
		{"touching right edge", Region{0, 0, 10, 10}, Region{10, 0, 10, 10}, false},
		{"touching bottom edge", Region{0, 0, 10, 10}, Region{0, 10, 10, 10}, false},
		{"separate x", Region{0, 0, 10, 10}, Region{20, 0, 10, 10}, false},
		{"same x, separate y", Region{0, 0, 10, 10}, Region{0, 30, 10, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestRegionDevice(t *testing.T) {
	r := Region{X: 1.5, Y: 2, Width: 3, Height: 4.25}
	got := r.Device(2)
	want := image.Rect(3, 4, 9, 13)
	if got != want {
		t.Errorf("Device(2) = %v, want %v", got, want)
	}
}

func TestMergeRegionsOverlappingPair(t *testing.T) {
	got := MergeRegions([]Region{
		{X: 25, Y: 0, Width: 20, Height: 20},
		{X: 10, Y: 0, Width: 20, Height: 20},
	}, testBounds)

	want := Region{X: 10, Y: 0, Width: 35, Height: 20}
	if len(got) != 1 {
		t.Fatalf("MergeRegions() returned %d regions, want 1: %v", len(got), got)
	}
	if got[0] != want {
		t.Errorf("MergeRegions() = %v, want %v", got[0], want)
	}
}

func TestMergeRegionsTouchingStaySeparate(t *testing.T) {
	got := MergeRegions([]Region{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 10, Y: 0, Width: 10, Height: 10},
	}, testBounds)
	if len(got) != 2 {
		t.Errorf("MergeRegions() returned %d regions, want 2: %v", len(got), got)
	}
}

func TestMergeRegionsEmpty(t *testing.T) {
	if got := MergeRegions(nil, testBounds); got != nil {
		t.Errorf("MergeRegions(nil) = %v, want nil", got)
	}
}

func TestMergeRegionsFallbackToBounds(t *testing.T) {
	regions := make([]Region, 0, 11)
	for i := 0; i < 11; i++ {
		regions = append(regions, Region{X: float64(i * 10), Y: 0, Width: 1, Height: 1})
	}

	got := MergeRegions(regions, testBounds)
	if len(got) != 1 || got[0] != testBounds {
		t.Errorf("MergeRegions(11 disjoint) = %v, want [%v]", got, testBounds)
	}
}

func TestMergeRegionsExactlyMax(t *testing.T) {
	regions := make([]Region, 0, MaxRegions)
	for i := 0; i < MaxRegions; i++ {
		regions = append(regions, Region{X: float64(i * 10), Y: 0, Width: 1, Height: 1})
	}
	if got := MergeRegions(regions, testBounds); len(got) != MaxRegions {
		t.Errorf("MergeRegions(%d disjoint) returned %d regions, want %d", MaxRegions, len(got), MaxRegions)
	}
}

func TestMergeRegionsChain(t *testing.T) {
	// Each region overlaps the next one in X order, so the sweep folds
	// all of them into a single accumulator.
	got := MergeRegions([]Region{
		{X: 40, Y: 5, Width: 15, Height: 5},
		{X: 0, Y: 0, Width: 15, Height: 10},
		{X: 10, Y: 2, Width: 15, Height: 10},
		{X: 20, Y: 4, Width: 25, Height: 10},
	}, testBounds)

	want := Region{X: 0, Y: 0, Width: 55, Height: 14}
	if len(got) != 1 || got[0] != want {
		t.Errorf("MergeRegions(chain) = %v, want [%v]", got, want)
	}
}

// coversPoint reports whether any region contains the point, edges included.
func coversPoint(regions []Region, x, y float64) bool {
	for _, r := range regions {
		if x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height {
			return true
		}
	}
	return false
}

func TestMergeRegionsCoversInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(20)
		in := make([]Region, n)
		for i := range in {
			in[i] = Region{
				X:      float64(rng.Intn(680)),
				Y:      float64(rng.Intn(480)),
				Width:  float64(1 + rng.Intn(120)),
				Height: float64(1 + rng.Intn(120)),
			}
		}
		orig := append([]Region(nil), in...)

		out := MergeRegions(in, testBounds)
		if len(out) > MaxRegions {
			t.Fatalf("iteration %d: %d regions, want <= %d", iter, len(out), MaxRegions)
		}
		for _, r := range orig {
			contained := false
			for _, o := range out {
				if o.Contains(r) {
					contained = true
					break
				}
			}
			if !contained {
				t.Fatalf("iteration %d: input %v not covered by %v", iter, r, out)
			}
		}
	}
}

func TestRegionTrackerFlush(t *testing.T) {
	var tr RegionTracker
	tr.Add(Region{X: 10, Y: 0, Width: 20, Height: 20})
	tr.Add(Region{X: 25, Y: 0, Width: 20, Height: 20})
	tr.Add(Region{X: 0, Y: 0, Width: 0, Height: 10}) // empty, ignored

	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}

	got := tr.Flush(testBounds)
	if len(got) != 1 {
		t.Fatalf("Flush() returned %d regions, want 1", len(got))
	}
	if !coversPoint(got, 44, 19) {
		t.Errorf("Flush() = %v, should cover (44, 19)", got)
	}
	if tr.Len() != 0 {
		t.Errorf("Len() after Flush = %d, want 0", tr.Len())
	}
	if again := tr.Flush(testBounds); again != nil {
		t.Errorf("second Flush() = %v, want nil", again)
	}
}

func TestRegionTrackerReplace(t *testing.T) {
	var tr RegionTracker
	tr.Add(Region{X: 1, Y: 1, Width: 1, Height: 1})
	tr.Add(Region{X: 5, Y: 5, Width: 1, Height: 1})
	tr.Replace(testBounds)

	regions := tr.Regions()
	if len(regions) != 1 || regions[0] != testBounds {
		t.Errorf("Regions() after Replace = %v, want [%v]", regions, testBounds)
	}

	tr.Reset()
	if tr.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", tr.Len())
	}
}
