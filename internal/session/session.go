// Package session ties the window locator, marker registry, matcher, anchor
// and label reader together behind one mutex.
//
// A Session is the explicit context object for one tracked window. Every
// exported method is safe for concurrent use.
package session

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ironsheep/screen-marker-mcp/internal/anchor"
	"github.com/ironsheep/screen-marker-mcp/internal/fresh"
	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
	"github.com/ironsheep/screen-marker-mcp/internal/markers"
	"github.com/ironsheep/screen-marker-mcp/internal/matcher"
	"github.com/ironsheep/screen-marker-mcp/internal/ocr"
)

// LabelReader recognizes text inside a region of an image.
type LabelReader interface {
	ExtractTextFromRegion(img image.Image, r geometry.Rect) (*ocr.Result, error)
}

// Deps are the collaborators a Session drives. Anchor and Labels are
// optional.
type Deps struct {
	Window   *locator.Locator
	Frames   locator.FrameSource
	Registry *markers.Registry
	Matcher  *matcher.Matcher
	Anchor   *anchor.Locator
	Labels   LabelReader
}

// Options configures a Session.
type Options struct {
	// Strip is the window-relative area searched for markers. A zero height
	// means the height of the window's monitor.
	Strip geometry.Rect
	// Expiry is the lifetime of a match pass. Zero means
	// fresh.DefaultExpiry.
	Expiry time.Duration
	// WatchInterval is the registry polling period for Watch. Default: 2s.
	WatchInterval time.Duration
	// AnnotationColor outlines located markers in snapshots.
	AnnotationColor string
	// LabelGap and LabelWidth place the label strip right of a marker.
	LabelGap   int
	LabelWidth int
	Logger     *slog.Logger
	Now        func() time.Time
}

func (o *Options) defaults() {
	if o.WatchInterval <= 0 {
		o.WatchInterval = 2 * time.Second
	}
	if o.AnnotationColor == "" {
		o.AnnotationColor = imaging.DefaultAnnotationColor
	}
	if o.LabelWidth <= 0 {
		o.LabelWidth = ocr.DefaultLabelWidth
	}
	if o.LabelGap < 0 {
		o.LabelGap = ocr.DefaultLabelGap
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// pass is one cached capture of the search strip and what was found in it.
type pass struct {
	markers []matcher.Located
	frame   *image.RGBA
	// origin is the window-relative position of the frame's top-left pixel.
	origin geometry.Point
}

// Session is the explicit context object for one tracked window.
type Session struct {
	mu   sync.Mutex
	deps Deps
	opts Options

	located *fresh.Value[*pass]
	watch   watchStats
}

// New creates a Session. Nothing is captured until the first call that needs
// located markers.
func New(deps Deps, opts Options) *Session {
	opts.defaults()
	s := &Session{deps: deps, opts: opts}
	s.located = fresh.New(s.locate, fresh.Policy{Expiry: opts.Expiry, Now: opts.Now})
	return s
}

// locate is the producer behind the located-markers cache.
func (s *Session) locate() (*pass, error) {
	st, err := s.deps.Window.Resolve()
	if err != nil {
		return nil, err
	}
	strip := s.opts.Strip
	if strip.Height() == 0 {
		strip.Max.Y = strip.Min.Y + st.Monitor.Bounds.Height()
	}

	img, origin, err := s.capture(st, &strip)
	if err != nil {
		return nil, err
	}
	located := s.deps.Matcher.Locate(imaging.FromImage(img), origin, s.deps.Registry.Markers())
	return &pass{markers: located, frame: img, origin: origin}, nil
}

// capture grabs a window-relative region and returns it with the
// window-relative position of its top-left pixel.
func (s *Session) capture(st locator.WindowState, region *geometry.Rect) (*image.RGBA, geometry.Point, error) {
	r := st.CaptureRect(region)
	img, err := s.deps.Frames.Capture(r)
	if err != nil {
		return nil, geometry.Point{}, fmt.Errorf("failed to capture %s: %w", r, err)
	}
	return img, r.Min.Sub(st.CaptureOrigin()), nil
}

// current returns the cached pass, refreshing it when stale. A failed
// refresh is returned as an error; the previous pass stays cached and the
// next call tries again. Callers hold mu.
func (s *Session) current() (*pass, error) {
	p, err := s.located.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to locate markers: %w", err)
	}
	return p, nil
}

// LocateMarkers returns the markers found by the current pass, sorted by
// their top edge. Regions are window-relative. An unresolvable window is an
// error; a marker that is not visible is simply absent.
func (s *Session) LocateMarkers() ([]matcher.Located, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	return append([]matcher.Located(nil), p.markers...), nil
}

// Update starts an evaluation step: the next read runs a new pass and every
// read after it sees that pass until the next Update. If the previous pass
// found nothing the window is brought to the foreground first.
func (s *Session) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.located.Unlock()
	if p, ok := s.located.Peek(); !ok || len(p.markers) == 0 {
		if err := s.deps.Window.Activate(); err != nil {
			s.opts.Logger.Debug("window activation failed", "error", err)
		}
	}
	s.located.Invalidate()
	s.located.Lock()
}

// Count returns the number of located markers.
func (s *Session) Count() (int, error) {
	ms, err := s.LocateMarkers()
	return len(ms), err
}

// ByIndex returns the i-th located marker, top to bottom. The index wraps, so
// -1 is the lowest marker. ok is false when nothing is located.
func (s *Session) ByIndex(i int) (loc matcher.Located, ok bool, err error) {
	ms, err := s.LocateMarkers()
	if err != nil || len(ms) == 0 {
		return matcher.Located{}, false, err
	}
	i %= len(ms)
	if i < 0 {
		i += len(ms)
	}
	return ms[i], true, nil
}

// ByName returns the first located marker, top to bottom, whose key contains
// partial.
func (s *Session) ByName(partial string) (loc matcher.Located, ok bool, err error) {
	ms, err := s.LocateMarkers()
	if err != nil {
		return matcher.Located{}, false, err
	}
	for _, m := range ms {
		if strings.Contains(m.Key, partial) {
			return m, true, nil
		}
	}
	return matcher.Located{}, false, nil
}

// Rescan refreshes the marker registry. Any change invalidates the current
// pass, except inside an Update step, where the change is picked up by the
// next Update.
func (s *Session) Rescan() (markers.ScanReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rescan()
}

func (s *Session) rescan() (markers.ScanReport, error) {
	report, err := s.deps.Registry.Scan()
	if err != nil {
		return report, err
	}
	if !report.Changed() {
		return report, nil
	}
	// A locked pass belongs to the current Update step; the next Update
	// recomputes it anyway.
	if s.located.Locked() {
		s.opts.Logger.Debug("registry changed during an update step, pass kept until the next Update")
		return report, nil
	}
	s.located.Invalidate()
	return report, nil
}

// Markers lists the registered markers with the region and pass each was
// last located in. Pass is zero for markers never located.
func (s *Session) Markers() []MarkerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.deps.Registry.Markers()
	out := make([]MarkerInfo, 0, len(ms))
	for _, m := range ms {
		w, h := m.Size()
		info := MarkerInfo{Key: m.Key, Name: m.Name, Size: geometry.Pt(w, h), ModTime: m.ModTime}
		if region, pass, ok := m.LastRegion(); ok {
			info.LastRegion = &region
			info.LastPass = pass
		}
		out = append(out, info)
	}
	return out
}

// MarkerInfo describes a registered marker.
type MarkerInfo struct {
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	Size       geometry.Point `json:"size"`
	ModTime    time.Time      `json:"mod_time"`
	LastRegion *geometry.Rect `json:"last_region,omitempty"`
	LastPass   uint64         `json:"last_pass,omitempty"`
}

// CurrentPass is the number of the latest match pass.
func (s *Session) CurrentPass() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Matcher.Pass()
}

// Window resolves the tracked window.
func (s *Session) Window() (locator.WindowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Window.Resolve()
}

// Capture grabs a window-relative region, or the whole window when region is
// nil. The result is clipped to the part of the window on its display; the
// returned rectangle is the window-relative area actually captured.
func (s *Session) Capture(region *geometry.Rect) (*image.RGBA, geometry.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.deps.Window.Resolve()
	if err != nil {
		return nil, geometry.Rect{}, err
	}
	img, origin, err := s.capture(st, region)
	if err != nil {
		return nil, geometry.Rect{}, err
	}
	b := img.Bounds()
	return img, geometry.Rect{Min: origin, Max: origin.Add(geometry.Pt(b.Dx(), b.Dy()))}, nil
}

// Snapshot is the search strip of the current pass with every located
// marker outlined.
type Snapshot struct {
	Image   *imaging.EncodedImage `json:"image"`
	Origin  geometry.Point        `json:"origin"`
	Markers []matcher.Located     `json:"markers"`
}

// Snapshot annotates the current pass.
func (s *Session) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.current()
	if err != nil {
		return nil, err
	}
	boxes := make([]imaging.Box, 0, len(p.markers))
	for _, m := range p.markers {
		boxes = append(boxes, imaging.Box{Region: m.Region.Translate(geometry.Point{}.Sub(p.origin)), Label: m.Name})
	}
	enc, err := imaging.EncodePNG(imaging.Annotate(p.frame, boxes, s.opts.AnnotationColor))
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Image:   enc,
		Origin:  p.origin,
		Markers: append([]matcher.Located(nil), p.markers...),
	}, nil
}

// AnchorInfo is the anchor position in both coordinate spaces.
type AnchorInfo struct {
	Screen geometry.Point `json:"screen"`
	Window geometry.Point `json:"window"`
}

// Anchor locates the anchor control.
func (s *Session) Anchor() (AnchorInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Anchor == nil {
		return AnchorInfo{}, anchor.ErrAnchorDisabled
	}
	center, err := s.deps.Anchor.Center()
	if err != nil {
		return AnchorInfo{}, err
	}
	st, err := s.deps.Window.Resolve()
	if err != nil {
		return AnchorInfo{}, err
	}
	return AnchorInfo{Screen: center, Window: st.ScreenToWindow(center, geometry.TopLeft)}, nil
}

// AnchorActive reports whether the anchor control shows its active colour.
func (s *Session) AnchorActive() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Anchor == nil {
		return false, anchor.ErrAnchorDisabled
	}
	return s.deps.Anchor.Active()
}

// Label is the text recognized next to a located marker.
type Label struct {
	Key    string        `json:"key"`
	Text   string        `json:"text"`
	Region geometry.Rect `json:"region"` // window-relative
	Words  []ocr.Word    `json:"words"`
}

// ReadLabel recognizes the label printed right of the located marker whose
// key contains partial.
func (s *Session) ReadLabel(partial string) (*Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Labels == nil {
		return nil, ErrNoLabelReader
	}
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	var loc *matcher.Located
	for i := range p.markers {
		if strings.Contains(p.markers[i].Key, partial) {
			loc = &p.markers[i]
			break
		}
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotLocated, partial)
	}

	st, err := s.deps.Window.Resolve()
	if err != nil {
		return nil, err
	}
	window := geometry.Rect{Max: st.Region.Size()}
	strip := ocr.LabelRegion(loc.Region, s.opts.LabelGap, s.opts.LabelWidth, window)
	if strip.Empty() {
		return &Label{Key: loc.Key, Region: strip, Words: []ocr.Word{}}, nil
	}

	img, origin, err := s.capture(st, &strip)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	result, err := s.deps.Labels.ExtractTextFromRegion(img, geometry.Rect{Max: geometry.Pt(b.Dx(), b.Dy())})
	if err != nil {
		return nil, fmt.Errorf("failed to read label of %s: %w", loc.Key, err)
	}
	for i := range result.Words {
		result.Words[i].Bounds = result.Words[i].Bounds.Translate(origin)
	}
	return &Label{
		Key:    loc.Key,
		Text:   result.Label(),
		Region: geometry.Rect{Min: origin, Max: origin.Add(geometry.Pt(b.Dx(), b.Dy()))},
		Words:  result.Words,
	}, nil
}
