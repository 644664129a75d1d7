package imaging

import (
	"image"
	"image/color"
)

// RGB is one pixel with alpha dropped.
type RGB [3]uint8

// Grid is a dense, row-major RGB copy of an image. Pixel (x, y) of a Grid is
// always addressed from (0, 0) regardless of the source image's bounds.
type Grid struct {
	W, H int
	Pix  []uint8 // 3 bytes per pixel
}

// NewGrid returns a black grid of the given size. Negative sizes are treated
// as zero.
func NewGrid(w, h int) *Grid {
	w, h = max(w, 0), max(h, 0)
	return &Grid{W: w, H: h, Pix: make([]uint8, 3*w*h)}
}

// FromImage copies img into a Grid, dropping alpha. Non-premultiplied colour
// values are used so a translucent marker keeps the colour it was drawn with.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.RGBA:
		// Captured frames are opaque, so premultiplied equals straight.
		for y := 0; y < g.H; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < g.W; x++ {
				copy(g.Pix[g.offset(x, y):g.offset(x, y)+3], row[4*x:4*x+3])
			}
		}
	case *image.NRGBA:
		for y := 0; y < g.H; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < g.W; x++ {
				copy(g.Pix[g.offset(x, y):g.offset(x, y)+3], row[4*x:4*x+3])
			}
		}
	default:
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				g.Set(x, y, RGB{c.R, c.G, c.B})
			}
		}
	}
	return g
}

func (g *Grid) offset(x, y int) int {
	return 3 * (y*g.W + x)
}

// In reports whether (x, y) addresses a pixel of g.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At returns the pixel at (x, y). The caller must ensure In(x, y).
func (g *Grid) At(x, y int) RGB {
	o := g.offset(x, y)
	return RGB{g.Pix[o], g.Pix[o+1], g.Pix[o+2]}
}

// Set writes the pixel at (x, y). The caller must ensure In(x, y).
func (g *Grid) Set(x, y int, c RGB) {
	o := g.offset(x, y)
	g.Pix[o], g.Pix[o+1], g.Pix[o+2] = c[0], c[1], c[2]
}

// Row returns the raw bytes of row y between columns x0 and x1 (exclusive).
func (g *Grid) Row(y, x0, x1 int) []uint8 {
	return g.Pix[g.offset(x0, y):g.offset(x1, y)]
}

// Empty reports whether g has no pixels.
func (g *Grid) Empty() bool {
	return g.W == 0 || g.H == 0
}

// Image converts g back to an opaque *image.RGBA.
func (g *Grid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := g.At(x, y)
			img.SetRGBA(x, y, color.RGBA{c[0], c[1], c[2], 255})
		}
	}
	return img
}
