package layered

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Config describes the logical size and capabilities of a Renderer.
//
// Width and Height are logical pixels. The device (backing) size of every
// surface is the logical size multiplied by PixelRatio.
type Config struct {
	Width  int
	Height int

	// PixelRatio is the number of device pixels per logical pixel.
	// Zero means 1.
	PixelRatio float64

	// EnableOffscreen allocates a secondary surface exposed through
	// Renderer.Offscreen. Allocation failure is not fatal.
	EnableOffscreen bool

	// EnableDirtyRects enables partial redraws. When false every MarkDirty
	// call invalidates the whole surface.
	EnableDirtyRects bool
}

// DefaultConfig returns a Config for the given logical size with a pixel
// ratio of 1 and both the offscreen surface and dirty rects enabled.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:            width,
		Height:           height,
		PixelRatio:       1,
		EnableOffscreen:  true,
		EnableDirtyRects: true,
	}
}

func (c Config) validate() (Config, error) {
	if c.PixelRatio == 0 {
		c.PixelRatio = 1
	}
	if c.Width <= 0 || c.Height <= 0 || !(c.PixelRatio > 0) || math.IsInf(c.PixelRatio, 1) {
		return c, fmt.Errorf("%w: width=%d, height=%d, pixelRatio=%g",
			ErrInvalidDimensions, c.Width, c.Height, c.PixelRatio)
	}
	return c, nil
}

// deviceSize returns the device pixel size for a logical size.
func deviceSize(width, height int, ratio float64) (int, int) {
	return int(float64(width) * ratio), int(float64(height) * ratio)
}

// SurfaceAllocator creates a drawing surface of the given device size.
// It is used for the offscreen surface and every layer backing surface.
type SurfaceAllocator func(width, height int) (*gg.Context, error)

// defaultAllocator allocates a software-rendered gg.Context.
func defaultAllocator(width, height int) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return gg.NewContext(width, height), nil
}

// Option configures a Renderer during creation.
//
// Example:
//
//	clock := layered.NewManualClock()
//	r, err := layered.New(dc, layered.DefaultConfig(800, 200), layered.WithFrameClock(clock))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	clock      FrameClock
	alloc      SurfaceAllocator
	clearColor gg.RGBA
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		clock:      nil, // Will be set to a ManualClock if nil
		alloc:      defaultAllocator,
		clearColor: gg.Transparent,
	}
}

// WithFrameClock sets the clock that drives scheduled frames.
// Without it the renderer uses a ManualClock, available through Renderer.Clock.
func WithFrameClock(c FrameClock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithSurfaceAllocator replaces the allocator used for layer and offscreen
// surfaces. The primary surface is always supplied by the caller.
func WithSurfaceAllocator(a SurfaceAllocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithClearColor sets the color the primary surface is cleared to before
// layers are composited. The default is transparent.
func WithClearColor(c gg.RGBA) Option {
	return func(o *options) {
		o.clearColor = c
	}
}
