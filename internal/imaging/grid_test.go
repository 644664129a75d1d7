package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImage_RGBA(t *testing.T) {
	img := solidFrame(5, 3, color.RGBA{10, 20, 30, 255})
	img.SetRGBA(4, 2, color.RGBA{200, 100, 50, 255})

	g := FromImage(img)
	if g.W != 5 || g.H != 3 {
		t.Fatalf("size: got %dx%d, want 5x3", g.W, g.H)
	}
	if got := g.At(0, 0); got != (RGB{10, 20, 30}) {
		t.Errorf("At(0,0): got %v", got)
	}
	if got := g.At(4, 2); got != (RGB{200, 100, 50}) {
		t.Errorf("At(4,2): got %v", got)
	}
}

func TestFromImage_SubImageOffset(t *testing.T) {
	img := solidFrame(10, 10, color.RGBA{A: 255})
	img.SetRGBA(6, 7, color.RGBA{255, 255, 255, 255})

	sub := img.SubImage(image.Rect(5, 5, 10, 10))
	g := FromImage(sub)
	if g.W != 5 || g.H != 5 {
		t.Fatalf("size: got %dx%d", g.W, g.H)
	}
	if got := g.At(1, 2); got != (RGB{255, 255, 255}) {
		t.Errorf("sub-image pixel should be addressed from the origin, got %v", got)
	}
}

func TestFromImage_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{100, 150, 200, 0})
	img.SetNRGBA(1, 0, color.NRGBA{100, 150, 200, 255})

	g := FromImage(img)
	if g.At(0, 0) != g.At(1, 0) {
		t.Errorf("alpha should not influence colour: %v vs %v", g.At(0, 0), g.At(1, 0))
	}
}

func TestFromImage_Paletted(t *testing.T) {
	pal := color.Palette{color.RGBA{0, 0, 0, 255}, color.RGBA{0, 255, 0, 255}}
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	img.SetColorIndex(1, 1, 1)

	g := FromImage(img)
	if got := g.At(1, 1); got != (RGB{0, 255, 0}) {
		t.Errorf("At(1,1): got %v", got)
	}
	if got := g.At(0, 0); got != (RGB{0, 0, 0}) {
		t.Errorf("At(0,0): got %v", got)
	}
}

func TestGrid_RowAndImage(t *testing.T) {
	g := NewGrid(3, 2)
	g.Set(1, 1, RGB{1, 2, 3})
	g.Set(2, 1, RGB{4, 5, 6})

	row := g.Row(1, 1, 3)
	want := []uint8{1, 2, 3, 4, 5, 6}
	if string(row) != string(want) {
		t.Errorf("Row: got %v, want %v", row, want)
	}

	img := g.Image()
	if got := img.RGBAAt(2, 1); got != (color.RGBA{4, 5, 6, 255}) {
		t.Errorf("Image: got %v", got)
	}
}

func TestGrid_Bounds(t *testing.T) {
	g := NewGrid(-1, 4)
	if !g.Empty() {
		t.Error("negative width should give an empty grid")
	}
	g = NewGrid(2, 2)
	for _, tt := range []struct {
		x, y int
		want bool
	}{{0, 0, true}, {1, 1, true}, {2, 0, false}, {0, -1, false}} {
		if got := g.In(tt.x, tt.y); got != tt.want {
			t.Errorf("In(%d,%d): got %v", tt.x, tt.y, got)
		}
	}
}
