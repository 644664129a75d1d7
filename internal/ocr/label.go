package ocr

import (
	"errors"
	"strings"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// ErrUnavailable is returned when the binary was built without Tesseract
// support.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in")

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Default label strip geometry, relative to the marker's right edge.
const (
	DefaultLabelGap   = 4
	DefaultLabelWidth = 160
)

// Word is a recognized word with its bounding box.
type Word struct {
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"` // 0.0 to 1.0
	Bounds     geometry.Rect `json:"bounds"`
}

// Result is the outcome of one recognition run.
type Result struct {
	// FullText is the raw recognized text, newlines included.
	FullText string `json:"full_text"`
	// Words may be empty when word boxes are unavailable.
	Words []Word `json:"words"`
}

// Label returns FullText collapsed onto one line.
func (r *Result) Label() string {
	if r == nil {
		return ""
	}
	return CleanLabel(r.FullText)
}

// CleanLabel collapses runs of whitespace, newlines included, into single
// spaces and trims the ends.
func CleanLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LabelRegion returns the strip to the right of marker that holds its label:
// gap pixels past the marker's right edge, width pixels wide, covering the
// marker's rows. The strip is clipped to bounds and may be empty.
func LabelRegion(marker geometry.Rect, gap, width int, bounds geometry.Rect) geometry.Rect {
	if gap < 0 {
		gap = 0
	}
	if width < 0 {
		width = 0
	}
	left := marker.Max.X + gap
	strip := geometry.Rect{
		Min: geometry.Pt(left, marker.Min.Y),
		Max: geometry.Pt(left+width, marker.Max.Y),
	}
	return strip.ClipTo(bounds)
}

// offsetWords translates word boxes by d.
func offsetWords(words []Word, d geometry.Point) {
	for i := range words {
		words[i].Bounds = words[i].Bounds.Translate(d)
	}
}
