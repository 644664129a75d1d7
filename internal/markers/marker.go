package markers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
)

// Marker is one reference image tracked by a Registry.
type Marker struct {
	// Key identifies the entry in its collection (a file name for
	// DirCollection).
	Key string
	// Name is Key without its extension.
	Name string
	// Pixels is the inner crop used for matching.
	Pixels *imaging.Grid
	// ModTime is the collection stamp the pixels were loaded from.
	ModTime time.Time

	region  geometry.Rect
	located bool
	pass    uint64
}

func newMarker(key string, pixels *imaging.Grid, modTime time.Time) *Marker {
	return &Marker{
		Key:     key,
		Name:    nameFromKey(key),
		Pixels:  pixels,
		ModTime: modTime,
	}
}

func nameFromKey(key string) string {
	base := filepath.Base(key)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Record stores the region found by match pass number pass.
func (m *Marker) Record(region geometry.Rect, pass uint64) {
	m.region = region
	m.located = true
	m.pass = pass
}

// LastRegion returns the most recently recorded region and the pass that
// found it. ok is false if the marker has never been located. The region may
// be older than the latest pass; compare pass with the matcher's current pass
// to tell.
func (m *Marker) LastRegion() (region geometry.Rect, pass uint64, ok bool) {
	return m.region, m.pass, m.located
}

// Size returns the width and height of the marker's pixels.
func (m *Marker) Size() (w, h int) {
	if m.Pixels == nil {
		return 0, 0
	}
	return m.Pixels.W, m.Pixels.H
}
