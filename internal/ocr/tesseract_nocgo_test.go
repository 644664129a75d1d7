//go:build !cgo

package ocr

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

func TestUnavailable(t *testing.T) {
	if Available() {
		t.Error("non-cgo build should report OCR as unavailable")
	}
	tess := &Tesseract{}
	if _, err := tess.ExtractText(image.NewRGBA(image.Rect(0, 0, 4, 4))); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ExtractText: got %v, want ErrUnavailable", err)
	}
	if _, err := tess.ExtractTextFromRegion(image.NewRGBA(image.Rect(0, 0, 4, 4)), geometry.Rect{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ExtractTextFromRegion: got %v, want ErrUnavailable", err)
	}
}
