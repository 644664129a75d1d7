package locator

import (
	"image"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// Handle is an opaque platform window identifier.
type Handle uintptr

// WindowService finds top-level windows and reports their rectangles in
// virtual-screen coordinates.
type WindowService interface {
	FindWindows(pattern string) ([]Handle, error)
	WindowRect(h Handle) (geometry.Rect, error)
}

// HandleValidator is implemented by window services that can tell whether a
// handle still refers to a live window. When available the locator reuses a
// cached handle instead of searching again.
type HandleValidator interface {
	IsWindow(h Handle) bool
}

// Activator is implemented by window services that can bring a window to the
// foreground.
type Activator interface {
	Activate(h Handle) error
}

// MonitorService enumerates displays as virtual-screen rectangles. The index
// of a display is its position in the returned slice.
type MonitorService interface {
	ListMonitors() ([]geometry.Rect, error)
}

// FrameSource captures a virtual-screen rectangle.
type FrameSource interface {
	Capture(r geometry.Rect) (*image.RGBA, error)
}
