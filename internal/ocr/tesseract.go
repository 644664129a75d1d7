//go:build cgo

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// Available reports whether recognition is compiled in.
func Available() bool { return true }

// Tesseract runs recognition with a fixed configuration. The zero value uses
// DefaultLanguage and the system tessdata directory.
type Tesseract struct {
	Language string
	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string
}

func (t *Tesseract) language() string {
	if t == nil || t.Language == "" {
		return DefaultLanguage
	}
	return t.Language
}

// ExtractText recognizes all text in img. Word boxes are relative to the
// image's top-left corner. If word boxes cannot be read the text is still
// returned with an empty Words slice.
func (t *Tesseract) ExtractText(img image.Image) (*Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t != nil && t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(t.language()); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &Result{FullText: text, Words: []Word{}}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds:     geometry.FromImageRect(box.Box),
		})
	}
	return &Result{FullText: text, Words: words}, nil
}

// ExtractTextFromRegion recognizes the text inside r, given relative to the
// image's top-left corner. Word boxes are translated back so they are relative
// to img rather than the crop.
func (t *Tesseract) ExtractTextFromRegion(img image.Image, r geometry.Rect) (*Result, error) {
	if r.Empty() {
		return &Result{Words: []Word{}}, nil
	}
	cropped := imaging.Crop(img, r.ImageRect().Add(img.Bounds().Min))
	result, err := t.ExtractText(cropped)
	if err != nil {
		return nil, err
	}
	offsetWords(result.Words, r.Min)
	return result, nil
}
