package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// DefaultAnnotationColor is used when the requested colour cannot be parsed.
const DefaultAnnotationColor = "#FF0000"

// OutlineThickness is the width in pixels of an annotation outline.
const OutlineThickness = 2

// Box is a region to outline, relative to the annotated image's top-left.
type Box struct {
	Region geometry.Rect
	Label  string
}

// ParseColor parses "#RRGGBB" into an opaque colour.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Annotate returns a copy of img with every box outlined and labelled above
// its top-left corner. Boxes partly outside the image are clipped.
func Annotate(img image.Image, boxes []Box, colorHex string) *image.RGBA {
	outline, err := ParseColor(colorHex)
	if err != nil {
		outline, _ = ParseColor(DefaultAnnotationColor)
	}

	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	labelColor := color.RGBA{255, 255, 255, 255}
	for _, b := range boxes {
		drawOutline(result, b.Region, outline)
		if b.Label != "" {
			drawLabel(result, b.Region, b.Label, labelColor, outline)
		}
	}
	return result
}

func drawOutline(img *image.RGBA, r geometry.Rect, c color.RGBA) {
	frame := geometry.FromImageRect(img.Bounds())
	for i := 0; i < OutlineThickness; i++ {
		inner := geometry.Rect{
			Min: r.Min.Add(geometry.Pt(i, i)),
			Max: r.Max.Sub(geometry.Pt(i+1, i+1)),
		}
		if inner.Max.X < inner.Min.X || inner.Max.Y < inner.Min.Y {
			return
		}
		for x := inner.Min.X; x <= inner.Max.X; x++ {
			setClipped(img, frame, x, inner.Min.Y, c)
			setClipped(img, frame, x, inner.Max.Y, c)
		}
		for y := inner.Min.Y; y <= inner.Max.Y; y++ {
			setClipped(img, frame, inner.Min.X, y, c)
			setClipped(img, frame, inner.Max.X, y, c)
		}
	}
}

func setClipped(img *image.RGBA, frame geometry.Rect, x, y int, c color.RGBA) {
	if x >= frame.Min.X && x < frame.Max.X && y >= frame.Min.Y && y < frame.Max.Y {
		img.SetRGBA(x, y, c)
	}
}

// labelFace draws box labels.
var labelFace = basicfont.Face7x13

// labelRect is the background of a label drawn for box r: one line of
// labelFace ending one pixel above r, moved down to the top of frame when it
// would start above it.
func labelRect(r, frame geometry.Rect, text string) geometry.Rect {
	w := font.MeasureString(labelFace, text).Ceil()
	h := labelFace.Height
	top := r.Min.Y - h - 1
	if top < frame.Min.Y {
		top = frame.Min.Y
	}
	return geometry.Rect{Min: geometry.Pt(r.Min.X, top), Max: geometry.Pt(r.Min.X+w, top+h)}
}

// drawLabel draws text in fg on a filled bg rectangle above box r.
func drawLabel(img *image.RGBA, r geometry.Rect, text string, fg, bg color.RGBA) {
	lr := labelRect(r, geometry.FromImageRect(img.Bounds()), text)
	draw.Draw(img, lr.ImageRect(), image.NewUniform(bg), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: labelFace,
		Dot:  fixed.P(lr.Min.X, lr.Min.Y+labelFace.Ascent),
	}
	d.DrawString(text)
}
