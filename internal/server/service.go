package server

import (
	"image"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
	"github.com/ironsheep/screen-marker-mcp/internal/markers"
	"github.com/ironsheep/screen-marker-mcp/internal/matcher"
	"github.com/ironsheep/screen-marker-mcp/internal/session"
)

// Service is what the tools operate on. *session.Session implements it.
type Service interface {
	LocateMarkers() ([]matcher.Located, error)
	Update()
	ByIndex(i int) (matcher.Located, bool, error)
	ByName(partial string) (matcher.Located, bool, error)
	Markers() []session.MarkerInfo
	CurrentPass() uint64
	Rescan() (markers.ScanReport, error)
	WatchStats() session.WatchStats
	Window() (locator.WindowState, error)
	Capture(region *geometry.Rect) (*image.RGBA, geometry.Rect, error)
	Snapshot() (*session.Snapshot, error)
	Anchor() (session.AnchorInfo, error)
	AnchorActive() (bool, error)
	ReadLabel(partial string) (*session.Label, error)
}

var _ Service = (*session.Session)(nil)
