package layered

import "errors"

// Common errors returned by Renderer operations.
var (
	// ErrNilSurface is returned when New is called without a primary surface.
	ErrNilSurface = errors.New("layered: nil primary surface")

	// ErrInvalidDimensions is returned when width, height or pixel ratio is invalid.
	ErrInvalidDimensions = errors.New("layered: invalid dimensions")

	// ErrSurfaceAllocation is returned when a backing surface cannot be allocated.
	ErrSurfaceAllocation = errors.New("layered: surface allocation failed")

	// ErrClosed is returned when operations are attempted on a closed renderer.
	ErrClosed = errors.New("layered: renderer is closed")
)
