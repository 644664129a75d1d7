package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// EncodedImage is a PNG image ready to be returned over MCP.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropInner returns the part of img inside r, where r is relative to the
// image's own top-left corner. Parts of r outside the image are dropped, so
// the result may be smaller than r or empty.
func CropInner(img image.Image, r geometry.Rect) *image.NRGBA {
	return imaging.Crop(img, r.ImageRect().Add(img.Bounds().Min))
}

// Crop extracts a region of img (relative to its top-left corner) and
// optionally rescales it. The region must lie inside the image.
func Crop(img image.Image, r geometry.Rect, scale float64) (*EncodedImage, error) {
	bounds := img.Bounds()
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %s: width and height must be positive", r)
	}
	if r.Max.X > bounds.Dx() || r.Max.Y > bounds.Dy() || r.Min.X < 0 || r.Min.Y < 0 {
		return nil, fmt.Errorf("crop region %s outside image bounds %dx%d", r, bounds.Dx(), bounds.Dy())
	}

	cropped := CropInner(img, r)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return EncodePNG(cropped)
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
