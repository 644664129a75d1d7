package locator

import (
	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// MonitorArea is one enumerated display.
type MonitorArea struct {
	Index  int           `json:"index"`
	Bounds geometry.Rect `json:"bounds"`
}

// Origin is the display's top-left in virtual-screen coordinates.
func (m MonitorArea) Origin() geometry.Point {
	return m.Bounds.Min
}

// Size is the display's width and height.
func (m MonitorArea) Size() geometry.Point {
	return m.Bounds.Size()
}

// WindowState is a snapshot of a resolved window. Region is in virtual-screen
// coordinates.
type WindowState struct {
	Handle       Handle        `json:"handle"`
	Region       geometry.Rect `json:"region"`
	MonitorIndex int           `json:"monitor_index"`
	Monitor      MonitorArea   `json:"monitor"`
}

// Corner returns a corner of the window in virtual-screen coordinates.
func (s WindowState) Corner(c geometry.Corner) geometry.Point {
	return s.Region.Corner(c)
}

// WindowToScreen converts a point given relative to corner rel of the window
// into virtual-screen coordinates.
func (s WindowState) WindowToScreen(p geometry.Point, rel geometry.Corner) geometry.Point {
	return s.Corner(rel).Add(p)
}

// ScreenToWindow converts a virtual-screen point into coordinates relative to
// corner rel of the window.
func (s WindowState) ScreenToWindow(p geometry.Point, rel geometry.Corner) geometry.Point {
	return p.Sub(s.Corner(rel))
}

// ScreenToMonitor converts a virtual-screen point into coordinates relative
// to the window's display.
func (s WindowState) ScreenToMonitor(p geometry.Point) geometry.Point {
	return p.Sub(s.Monitor.Origin())
}

// MonitorToScreen converts a display-relative point into virtual-screen
// coordinates.
func (s WindowState) MonitorToScreen(p geometry.Point) geometry.Point {
	return p.Add(s.Monitor.Origin())
}

// WindowToMonitor converts a top-left-relative window point into
// display-relative coordinates.
func (s WindowState) WindowToMonitor(p geometry.Point) geometry.Point {
	return s.ScreenToMonitor(s.WindowToScreen(p, geometry.TopLeft))
}

// MonitorToWindow converts a display-relative point into top-left-relative
// window coordinates.
func (s WindowState) MonitorToWindow(p geometry.Point) geometry.Point {
	return s.ScreenToWindow(s.MonitorToScreen(p), geometry.TopLeft)
}

// RegionToScreen converts a top-left-relative window rectangle into
// virtual-screen coordinates.
func (s WindowState) RegionToScreen(r geometry.Rect) geometry.Rect {
	return r.Translate(s.Region.Min)
}

// CaptureRect converts a window-relative region into the virtual-screen
// rectangle that should be captured for it. A nil region means the whole
// window.
//
// Only the part of the window on its display is captured. Window-relative
// coordinates are measured from the top-left of that visible part, which
// differs from the window's own top-left when the window hangs off the
// display's top or left edge. The result is clipped to the visible part, so
// it never spans two displays.
func (s WindowState) CaptureRect(region *geometry.Rect) geometry.Rect {
	visible := s.visible()
	r := geometry.Rect{Max: s.Region.Size()}
	if region != nil {
		r = *region
	}
	return r.Translate(visible.Min).ClipTo(visible)
}

// CaptureOrigin is the virtual-screen point that window-relative capture
// coordinates are measured from.
func (s WindowState) CaptureOrigin() geometry.Point {
	return s.visible().Min
}

// visible is the part of the window on its display, in virtual-screen
// coordinates.
func (s WindowState) visible() geometry.Rect {
	return s.Region.ClipTo(s.Monitor.Bounds)
}
