package screen

import "errors"

var (
	// ErrUnsupported is returned by window operations on platforms without a
	// window backend.
	ErrUnsupported = errors.New("window operations are not supported on this platform")

	// ErrNoDisplay means no active display intersects the requested rectangle.
	ErrNoDisplay = errors.New("no display covers the requested region")

	// ErrEmptyFrame is returned when a capture produced no usable pixels.
	ErrEmptyFrame = errors.New("captured frame is empty")
)
