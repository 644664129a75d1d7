package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

func markerImage() *image.RGBA {
	// 24x24 with a 1px white border and a blue inner square.
	img := solidFrame(24, 24, color.RGBA{255, 255, 255, 255})
	for y := 6; y < 18; y++ {
		for x := 6; x < 18; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	return img
}

func TestCropInner(t *testing.T) {
	inner := CropInner(markerImage(), geometry.Rect{Min: geometry.Pt(6, 6), Max: geometry.Pt(18, 18)})
	if inner.Bounds() != image.Rect(0, 0, 12, 12) {
		t.Fatalf("bounds: got %v", inner.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {11, 11}, {5, 7}} {
		if got := rgbaAt(inner, p.X, p.Y); got != (color.RGBA{0, 0, 255, 255}) {
			t.Errorf("pixel %v: got %v", p, got)
		}
	}
}

func TestCropInner_OffsetImage(t *testing.T) {
	sub := markerImage().SubImage(image.Rect(6, 6, 24, 24))
	inner := CropInner(sub, geometry.Rect{Min: geometry.Pt(0, 0), Max: geometry.Pt(12, 12)})
	if got := rgbaAt(inner, 0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("crop should be relative to the image origin, got %v", got)
	}
}

func TestCropInner_Small(t *testing.T) {
	small := solidFrame(10, 10, color.RGBA{A: 255})
	inner := CropInner(small, geometry.Rect{Min: geometry.Pt(6, 6), Max: geometry.Pt(18, 18)})
	if inner.Bounds().Dx() != 4 || inner.Bounds().Dy() != 4 {
		t.Errorf("crop should be clipped to the image, got %v", inner.Bounds())
	}

	tiny := solidFrame(4, 4, color.RGBA{A: 255})
	if got := CropInner(tiny, geometry.Rect{Min: geometry.Pt(6, 6), Max: geometry.Pt(18, 18)}); !got.Bounds().Empty() {
		t.Errorf("crop outside the image should be empty, got %v", got.Bounds())
	}
}

func TestCrop(t *testing.T) {
	img := solidFrame(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name         string
		r            geometry.Rect
		scale        float64
		wantW, wantH int
		wantErr      bool
	}{
		{"plain", geometry.Rect{Max: geometry.Pt(50, 40)}, 1.0, 50, 40, false},
		{"scale up", geometry.Rect{Max: geometry.Pt(50, 50)}, 2.0, 100, 100, false},
		{"scale down", geometry.Rect{Max: geometry.Pt(100, 100)}, 0.5, 50, 50, false},
		{"outside", geometry.Rect{Min: geometry.Pt(50, 50), Max: geometry.Pt(150, 150)}, 1.0, 0, 0, true},
		{"empty", geometry.Rect{Min: geometry.Pt(5, 5), Max: geometry.Pt(5, 9)}, 1.0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Crop(img, tt.r, tt.scale)
			if tt.wantErr {
				if err == nil {
					t.Error("Crop should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	result, err := EncodePNG(solidFrame(7, 3, color.RGBA{1, 2, 3, 255}))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", result.MimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 7 || decoded.Bounds().Dy() != 3 {
		t.Errorf("decoded size: got %v", decoded.Bounds())
	}
	if got := rgbaAt(decoded, 6, 2); got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("decoded pixel: got %v", got)
	}
}
