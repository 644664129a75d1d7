package anchor

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/screen-marker-mcp/internal/fresh"
	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
)

// Window is the part of the window locator the anchor needs.
type Window interface {
	Resolve() (locator.WindowState, error)
	Region() (geometry.Rect, bool)
}

// Options positions and tunes the anchor search.
type Options struct {
	// Corner of the window the offset is measured from.
	Corner geometry.Corner
	// Offset from Corner to the approximate anchor center.
	Offset geometry.Point
	// Radius is half the size of the searched box. Default 30.
	Radius int
	// Threshold applies to the red channel of the searched box and to every
	// channel of the state box. Default 151.
	Threshold uint8
	// StateRadius is half the size of the box sampled by Active. Default 13.
	StateRadius int
	// Expiry of the cached center. Zero means fresh.DefaultExpiry.
	Expiry time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Now overrides the clock of the cached center.
	Now func() time.Time
}

// DefaultOffset is used when Offset is zero. Measured from the window's
// bottom-left corner it places the anchor 232 pixels right and 36 pixels up.
var DefaultOffset = geometry.Pt(232, -36)

func (o *Options) defaults() {
	if o.Offset == (geometry.Point{}) {
		o.Offset = DefaultOffset
	}
	if o.Radius <= 0 {
		o.Radius = 30
	}
	if o.Threshold == 0 {
		o.Threshold = 151
	}
	if o.StateRadius <= 0 {
		o.StateRadius = 13
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Locator finds the anchor and reports its state. It is not safe for
// concurrent use.
type Locator struct {
	win    Window
	src    locator.FrameSource
	tmpl   *Template
	opts   Options
	center *fresh.Value[geometry.Point]
}

// New creates a Locator. A nil template disables it: every call returns
// ErrAnchorDisabled.
func New(win Window, src locator.FrameSource, tmpl *Template, opts Options) *Locator {
	opts.defaults()
	a := &Locator{win: win, src: src, tmpl: tmpl, opts: opts}
	a.center = fresh.New(a.locate, fresh.Policy{
		Expiry: opts.Expiry,
		Probe:  fresh.ProbeOf(win.Region),
		Now:    opts.Now,
	})
	return a
}

// Enabled reports whether a template is loaded.
func (a *Locator) Enabled() bool {
	return a.tmpl != nil
}

// Center returns the anchor center in virtual-screen coordinates.
func (a *Locator) Center() (geometry.Point, error) {
	if a.tmpl == nil {
		return geometry.Point{}, ErrAnchorDisabled
	}
	return a.center.Get()
}

// Invalidate forces the next Center to search again.
func (a *Locator) Invalidate() {
	a.center.Invalidate()
}

// Active samples a small box around the anchor center and reports whether
// red pixels outnumber green and blue pixels combined, counting only pixels
// at or above the threshold on each channel.
func (a *Locator) Active() (bool, error) {
	center, err := a.Center()
	if err != nil {
		return false, err
	}
	r := geometry.Pt(a.opts.StateRadius, a.opts.StateRadius)
	img, _, err := a.capture(geometry.Rect{Min: center.Sub(r), Max: center.Add(r)})
	if err != nil {
		return false, err
	}

	counts := [3]int{}
	for i, c := range []channel.Channel{channel.Red, channel.Green, channel.Blue} {
		counts[i] = countSet(segment.Threshold(channel.Extract(img, c), a.opts.Threshold))
	}
	return counts[0] > counts[1]+counts[2], nil
}

// locate is the producer behind the cached center.
func (a *Locator) locate() (geometry.Point, error) {
	st, err := a.win.Resolve()
	if err != nil {
		return geometry.Point{}, err
	}
	approx := st.Corner(a.opts.Corner).Add(a.opts.Offset)
	rad := geometry.Pt(a.opts.Radius, a.opts.Radius)

	img, origin, err := a.captureWith(st, geometry.Rect{Min: approx.Sub(rad), Max: approx.Add(rad)})
	if err != nil {
		return geometry.Point{}, err
	}

	b := img.Bounds()
	x, y, err := a.tmpl.Match(binarize(RedThreshold(img, a.opts.Threshold)), b.Dx(), b.Dy())
	if err != nil {
		return geometry.Point{}, fmt.Errorf("failed to locate anchor: %w", err)
	}
	center := origin.Add(geometry.Pt(x+a.tmpl.W/2, y+a.tmpl.H/2))
	a.opts.Logger.Debug("anchor located", "center", center.String(), "approx", approx.String())
	return center, nil
}

func (a *Locator) capture(virtual geometry.Rect) (*image.RGBA, geometry.Point, error) {
	st, err := a.win.Resolve()
	if err != nil {
		return nil, geometry.Point{}, err
	}
	return a.captureWith(st, virtual)
}

// captureWith grabs a virtual-screen box, clipped to the visible window, and
// returns the image with the virtual position of its top-left pixel.
func (a *Locator) captureWith(st locator.WindowState, virtual geometry.Rect) (*image.RGBA, geometry.Point, error) {
	rel := virtual.Translate(geometry.Point{}.Sub(st.CaptureOrigin()))
	target := st.CaptureRect(&rel)
	if target.Empty() {
		return nil, geometry.Point{}, fmt.Errorf("anchor box %s is outside the window", virtual)
	}
	img, err := a.src.Capture(target)
	if err != nil {
		return nil, geometry.Point{}, fmt.Errorf("failed to capture anchor box: %w", err)
	}
	return img, target.Min, nil
}

func countSet(g *image.Gray) int {
	n := 0
	for _, v := range g.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}
