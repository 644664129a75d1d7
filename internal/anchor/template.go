package anchor

import (
	"errors"
	"fmt"
	"image"
	"io/fs"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
)

// ErrAnchorDisabled is returned when no template is configured or the
// template files are missing.
var ErrAnchorDisabled = errors.New("anchor template not available")

// ErrNoFit means the captured box is smaller than the template.
var ErrNoFit = errors.New("anchor template does not fit in the captured region")

// Template is a binary image and the mask of pixels that take part in
// matching.
type Template struct {
	W, H int
	On   []bool // template pixel is set
	Mask []bool // pixel takes part in matching
}

// LoadTemplate reads the template and mask images. Both are reduced to their
// red channel; a template pixel is set when it is at least half intensity and
// a mask pixel counts when it is not black. An empty maskPath uses every
// pixel.
func LoadTemplate(cache *imaging.ImageCache, templatePath, maskPath string) (*Template, error) {
	if templatePath == "" {
		return nil, ErrAnchorDisabled
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}

	img, err := cache.Load(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrAnchorDisabled, err)
		}
		return nil, fmt.Errorf("failed to load anchor template: %w", err)
	}
	t := &Template{W: img.Bounds().Dx(), H: img.Bounds().Dy()}
	t.On = binarize(RedThreshold(img, 128))

	if maskPath == "" {
		t.Mask = make([]bool, t.W*t.H)
		for i := range t.Mask {
			t.Mask[i] = true
		}
		return t, nil
	}

	mask, err := cache.Load(maskPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrAnchorDisabled, err)
		}
		return nil, fmt.Errorf("failed to load anchor mask: %w", err)
	}
	if mask.Bounds().Dx() != t.W || mask.Bounds().Dy() != t.H {
		return nil, fmt.Errorf("anchor mask is %dx%d, template is %dx%d",
			mask.Bounds().Dx(), mask.Bounds().Dy(), t.W, t.H)
	}
	t.Mask = binarize(RedThreshold(mask, 1))
	return t, nil
}

// RedThreshold extracts the red channel of img and sets every pixel at or
// above level to white and the rest to black.
func RedThreshold(img image.Image, level uint8) *image.Gray {
	return segment.Threshold(channel.Extract(img, channel.Red), level)
}

// binarize flattens a thresholded image into row-major booleans.
func binarize(g *image.Gray) []bool {
	b := g.Bounds()
	out := make([]bool, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, g.GrayAt(x, y).Y != 0)
		}
	}
	return out
}

// Match finds the placement of t in the binary image region (w x h, row
// major) with the smallest masked squared difference. Ties go to the first
// placement in row-major order.
func (t *Template) Match(region []bool, w, h int) (x, y int, err error) {
	if t.W > w || t.H > h || t.W == 0 || t.H == 0 {
		return 0, 0, ErrNoFit
	}
	best := -1
	for py := 0; py <= h-t.H; py++ {
		for px := 0; px <= w-t.W; px++ {
			diff := 0
			for ty := 0; ty < t.H; ty++ {
				row := region[(py+ty)*w+px:]
				for tx := 0; tx < t.W; tx++ {
					i := ty*t.W + tx
					if t.Mask[i] && t.On[i] != row[tx] {
						diff++
					}
				}
			}
			if best < 0 || diff < best {
				best, x, y = diff, px, py
			}
		}
	}
	return x, y, nil
}
