//go:build !cgo

package ocr

import (
	"image"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// Available reports whether recognition is compiled in.
func Available() bool { return false }

// Tesseract is a placeholder in builds without cgo.
type Tesseract struct {
	Language       string
	TessdataPrefix string
}

// ExtractText always fails with ErrUnavailable.
func (t *Tesseract) ExtractText(img image.Image) (*Result, error) {
	return nil, ErrUnavailable
}

// ExtractTextFromRegion always fails with ErrUnavailable.
func (t *Tesseract) ExtractTextFromRegion(img image.Image, r geometry.Rect) (*Result, error) {
	return nil, ErrUnavailable
}
