package markers

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
)

// DefaultCrop is the inner region of a marker image used for matching.
var DefaultCrop = geometry.Rect{Min: geometry.Pt(6, 6), Max: geometry.Pt(18, 18)}

// UpdateStatus is the outcome of refreshing one existing marker.
type UpdateStatus int

const (
	Unchanged UpdateStatus = iota
	Reloaded
	Unloaded
)

func (s UpdateStatus) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Reloaded:
		return "reloaded"
	case Unloaded:
		return "unloaded"
	}
	return fmt.Sprintf("UpdateStatus(%d)", int(s))
}

// ScanReport lists what one scan did, by key.
type ScanReport struct {
	Added     []string          `json:"added"`
	Reloaded  []string          `json:"reloaded"`
	Unloaded  []string          `json:"unloaded"`
	Unchanged []string          `json:"unchanged"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// Changed reports whether the scan altered the registry.
func (r ScanReport) Changed() bool {
	return len(r.Added)+len(r.Reloaded)+len(r.Unloaded) > 0
}

// Options configures a Registry.
type Options struct {
	// Crop is the inner region of each image kept for matching. Zero means
	// DefaultCrop.
	Crop geometry.Rect
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Crop == (geometry.Rect{}) {
		o.Crop = DefaultCrop
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Registry tracks the markers of one Collection. It is not safe for
// concurrent use.
type Registry struct {
	coll    Collection
	opts    Options
	markers map[string]*Marker
}

// NewRegistry creates an empty registry. Call Scan to populate it.
func NewRegistry(coll Collection, opts Options) *Registry {
	opts.defaults()
	return &Registry{
		coll:    coll,
		opts:    opts,
		markers: make(map[string]*Marker),
	}
}

// Scan runs one refresh pass over the collection. The returned error is
// non-nil only when the collection cannot be listed, in which case the
// registry is left unchanged.
func (r *Registry) Scan() (ScanReport, error) {
	var report ScanReport

	entries, err := r.coll.ListEntries()
	if err != nil {
		return report, fmt.Errorf("failed to list markers: %w", err)
	}
	present := make(map[string]Entry, len(entries))
	for _, e := range entries {
		present[e.Key] = e
	}

	for _, key := range r.Keys() {
		m := r.markers[key]
		e, ok := present[key]
		status, err := r.refresh(m, e, ok)
		if err != nil {
			r.fail(&report, key, err)
			continue
		}
		switch status {
		case Unloaded:
			report.Unloaded = append(report.Unloaded, key)
		case Reloaded:
			report.Reloaded = append(report.Reloaded, key)
		default:
			report.Unchanged = append(report.Unchanged, key)
		}
	}

	for _, e := range entries {
		if _, ok := r.markers[e.Key]; ok {
			continue
		}
		pixels, err := r.load(e.Key)
		if err != nil {
			r.fail(&report, e.Key, err)
			continue
		}
		r.markers[e.Key] = newMarker(e.Key, pixels, e.ModTime)
		report.Added = append(report.Added, e.Key)
		r.opts.Logger.Info("marker loaded", "key", e.Key, "width", pixels.W, "height", pixels.H)
	}

	return report, nil
}

// refresh applies one entry observation to an existing marker.
func (r *Registry) refresh(m *Marker, e Entry, present bool) (UpdateStatus, error) {
	if !present {
		delete(r.markers, m.Key)
		if f, ok := r.coll.(Forgetter); ok {
			f.Forget(m.Key)
		}
		r.opts.Logger.Info("marker unloaded", "key", m.Key)
		return Unloaded, nil
	}
	if !e.ModTime.After(m.ModTime) {
		return Unchanged, nil
	}

	pixels, err := r.load(m.Key)
	if err != nil {
		// Keep the old pixels and stamp so the next scan retries.
		return Unchanged, err
	}
	m.Pixels = pixels
	m.ModTime = e.ModTime
	r.opts.Logger.Info("marker reloaded", "key", m.Key)
	return Reloaded, nil
}

func (r *Registry) load(key string) (*imaging.Grid, error) {
	img, err := r.coll.LoadPixels(key)
	if err != nil {
		return nil, err
	}
	return imaging.FromImage(imaging.CropInner(img, r.opts.Crop)), nil
}

func (r *Registry) fail(report *ScanReport, key string, err error) {
	if report.Failed == nil {
		report.Failed = make(map[string]string)
	}
	report.Failed[key] = err.Error()
	r.opts.Logger.Warn("failed to load marker", "key", key, "error", err)
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.markers))
	for k := range r.markers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Markers returns the registered markers ordered by key.
func (r *Registry) Markers() []*Marker {
	keys := r.Keys()
	out := make([]*Marker, len(keys))
	for i, k := range keys {
		out[i] = r.markers[k]
	}
	return out
}

// Get returns the marker for key.
func (r *Registry) Get(key string) (*Marker, error) {
	m, ok := r.markers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMarker, key)
	}
	return m, nil
}

// Len returns the number of registered markers.
func (r *Registry) Len() int {
	return len(r.markers)
}
