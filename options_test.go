package layered

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(640, 480)
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.PixelRatio != 1 {
		t.Errorf("PixelRatio = %g, want 1", cfg.PixelRatio)
	}
	if !cfg.EnableOffscreen || !cfg.EnableDirtyRects {
		t.Error("DefaultConfig should enable offscreen and dirty rects")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantRatio float64
		wantErr   bool
	}{
		{"default", DefaultConfig(10, 10), 1, false},
		{"zero ratio means one", Config{Width: 10, Height: 10}, 1, false},
		{"hidpi", Config{Width: 10, Height: 10, PixelRatio: 2}, 2, false},
		{"zero width", Config{Width: 0, Height: 10}, 0, true},
		{"negative height", Config{Width: 10, Height: -4}, 0, true},
		{"negative ratio", Config{Width: 10, Height: 10, PixelRatio: -1}, 0, true},
		{"nan ratio", Config{Width: 10, Height: 10, PixelRatio: math.NaN()}, 0, true},
		{"infinite ratio", Config{Width: 10, Height: 10, PixelRatio: math.Inf(1)}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Errorf("validate() error = %v, want ErrInvalidDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate() error = %v", err)
			}
			if got.PixelRatio != tt.wantRatio {
				t.Errorf("PixelRatio = %g, want %g", got.PixelRatio, tt.wantRatio)
			}
		})
	}
}

func TestDeviceSize(t *testing.T) {
	tests := []struct {
		w, h   int
		ratio  float64
		dw, dh int
	}{
		{100, 50, 1, 100, 50},
		{100, 50, 2, 200, 100},
		{101, 51, 1.5, 151, 76},
	}
	for _, tt := range tests {
		dw, dh := deviceSize(tt.w, tt.h, tt.ratio)
		if dw != tt.dw || dh != tt.dh {
			t.Errorf("deviceSize(%d, %d, %g) = %d, %d, want %d, %d", tt.w, tt.h, tt.ratio, dw, dh, tt.dw, tt.dh)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.clock != nil {
		t.Error("default clock should be nil until New picks a ManualClock")
	}
	if o.alloc == nil {
		t.Fatal("default allocator is nil")
	}
	if o.clearColor != gg.Transparent {
		t.Errorf("clearColor = %+v, want transparent", o.clearColor)
	}
}

func TestDefaultAllocator(t *testing.T) {
	dc, err := defaultAllocator(8, 4)
	if err != nil {
		t.Fatalf("defaultAllocator() error = %v", err)
	}
	if dc.Width() != 8 || dc.Height() != 4 {
		t.Errorf("surface = %dx%d, want 8x4", dc.Width(), dc.Height())
	}
	if _, err := defaultAllocator(0, 4); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("defaultAllocator(0, 4) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestOptions(t *testing.T) {
	clock := NewManualClock()
	calls := 0
	alloc := func(w, h int) (*gg.Context, error) {
		calls++
		return gg.NewContext(w, h), nil
	}
	red := gg.RGB(1, 0, 0)

	o := defaultOptions()
	for _, opt := range []Option{
		WithFrameClock(clock),
		WithSurfaceAllocator(alloc),
		WithSurfaceAllocator(nil), // ignored
		WithClearColor(red),
	} {
		opt(&o)
	}

	if o.clock != clock {
		t.Error("WithFrameClock not applied")
	}
	_, _ = o.alloc(1, 1)
	if calls != 1 {
		t.Error("WithSurfaceAllocator(nil) should keep the previous allocator")
	}
	if o.clearColor != red {
		t.Errorf("clearColor = %+v, want red", o.clearColor)
	}
}
