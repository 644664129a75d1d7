package screen

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
)

// FullDisplayCapture captures the whole display containing a rectangle and
// crops the rectangle out of it.
type FullDisplayCapture struct {
	grabber Grabber
}

// NewFullDisplayCapture creates a FullDisplayCapture over g, or over the
// system displays when g is nil.
func NewFullDisplayCapture(g Grabber) *FullDisplayCapture {
	if g == nil {
		g = SystemGrabber()
	}
	return &FullDisplayCapture{grabber: g}
}

// Capture grabs r, given in virtual-screen coordinates. r must lie on a
// single display; parts outside the display holding r's top-left are dropped.
func (f *FullDisplayCapture) Capture(r geometry.Rect) (*image.RGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("failed to capture %s: %w", r, ErrEmptyFrame)
	}

	for i := 0; i < f.grabber.NumDisplays(); i++ {
		bounds := f.grabber.DisplayBounds(i)
		if !image.Pt(r.Min.X, r.Min.Y).In(bounds) {
			continue
		}
		full, err := f.grabber.CaptureDisplay(i)
		if err != nil {
			return nil, fmt.Errorf("failed to capture display %d: %w", i, err)
		}
		// Display captures are addressed from (0,0).
		local := r.Translate(geometry.Pt(-bounds.Min.X, -bounds.Min.Y))
		cropped := imaging.Crop(full, local.ImageRect().Add(full.Bounds().Min))
		return toRGBA(cropped), nil
	}
	return nil, fmt.Errorf("failed to capture %s: %w", r, ErrNoDisplay)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// fallbackSource tries a primary source first.
type fallbackSource struct {
	primary, fallback locator.FrameSource
	logger            *slog.Logger
}

// WithFallback returns a source that uses primary and switches to fallback
// for a capture when primary fails or returns a frame with no pixels or only
// zero bytes (a blank frame is what some drivers return for a protected or
// sleeping display).
func WithFallback(primary, fallback locator.FrameSource, logger *slog.Logger) locator.FrameSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &fallbackSource{primary: primary, fallback: fallback, logger: logger}
}

func (s *fallbackSource) Capture(r geometry.Rect) (*image.RGBA, error) {
	img, err := s.primary.Capture(r)
	if err == nil && !blank(img) {
		return img, nil
	}
	if err == nil {
		err = ErrEmptyFrame
	}
	s.logger.Debug("primary capture failed, using fallback", "region", r.String(), "error", err)

	img, ferr := s.fallback.Capture(r)
	if ferr != nil {
		return nil, fmt.Errorf("capture failed: %w (fallback: %v)", err, ferr)
	}
	return img, nil
}

func blank(img *image.RGBA) bool {
	if img == nil || img.Bounds().Empty() {
		return true
	}
	for _, b := range img.Pix {
		if b != 0 {
			return false
		}
	}
	return true
}
