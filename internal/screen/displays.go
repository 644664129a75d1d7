package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// Grabber is the display capture backend used by Displays and
// FullDisplayCapture.
type Grabber interface {
	NumDisplays() int
	DisplayBounds(i int) image.Rectangle
	CaptureRect(r image.Rectangle) (*image.RGBA, error)
	CaptureDisplay(i int) (*image.RGBA, error)
}

type screenshotGrabber struct{}

func (screenshotGrabber) NumDisplays() int {
	return screenshot.NumActiveDisplays()
}

func (screenshotGrabber) DisplayBounds(i int) image.Rectangle {
	return screenshot.GetDisplayBounds(i)
}

func (screenshotGrabber) CaptureRect(r image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(r)
}

func (screenshotGrabber) CaptureDisplay(i int) (*image.RGBA, error) {
	return screenshot.CaptureDisplay(i)
}

// SystemGrabber captures the real displays.
func SystemGrabber() Grabber {
	return screenshotGrabber{}
}

// Displays enumerates monitors and captures virtual-screen rectangles.
type Displays struct {
	grabber Grabber
}

// NewDisplays creates a Displays over g, or over the system displays when g
// is nil.
func NewDisplays(g Grabber) *Displays {
	if g == nil {
		g = SystemGrabber()
	}
	return &Displays{grabber: g}
}

// ListMonitors returns the bounds of every active display.
func (d *Displays) ListMonitors() ([]geometry.Rect, error) {
	n := d.grabber.NumDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("failed to list monitors: %w", ErrNoDisplay)
	}
	out := make([]geometry.Rect, n)
	for i := 0; i < n; i++ {
		out[i] = geometry.FromImageRect(d.grabber.DisplayBounds(i))
	}
	return out, nil
}

// Capture grabs r, given in virtual-screen coordinates.
func (d *Displays) Capture(r geometry.Rect) (*image.RGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("failed to capture %s: %w", r, ErrEmptyFrame)
	}
	img, err := d.grabber.CaptureRect(r.ImageRect())
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", r, err)
	}
	return img, nil
}
