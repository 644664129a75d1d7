//go:build !windows

package screen

import (
	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
)

// WindowFinder has no backend on this platform.
type WindowFinder struct{}

// NewWindowFinder returns a finder whose operations fail with ErrUnsupported.
func NewWindowFinder() *WindowFinder {
	return &WindowFinder{}
}

func (w *WindowFinder) FindWindows(pattern string) ([]locator.Handle, error) {
	return nil, ErrUnsupported
}

func (w *WindowFinder) WindowRect(h locator.Handle) (geometry.Rect, error) {
	return geometry.Rect{}, ErrUnsupported
}

func (w *WindowFinder) IsWindow(h locator.Handle) bool {
	return false
}

func (w *WindowFinder) Activate(h locator.Handle) error {
	return ErrUnsupported
}
