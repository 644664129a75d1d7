package server

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ironsheep/screen-marker-mcp/internal/anchor"
	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
	"github.com/ironsheep/screen-marker-mcp/internal/markers"
	"github.com/ironsheep/screen-marker-mcp/internal/matcher"
	"github.com/ironsheep/screen-marker-mcp/internal/session"
)

func rect(l, t, r, b int) geometry.Rect {
	return geometry.Rect{Min: geometry.Pt(l, t), Max: geometry.Pt(r, b)}
}

// fakeService is a canned Service.
type fakeService struct {
	located   []matcher.Located
	pass      uint64
	updates   int
	window    locator.WindowState
	windowErr error
	report    markers.ScanReport
	captured  geometry.Rect
	anchorErr error
	label     *session.Label
	labelErr  error
}

func newFakeService() *fakeService {
	return &fakeService{
		located: []matcher.Located{
			{Key: "bob.png", Name: "bob", Region: rect(130, 50, 142, 62), Pass: 3},
			{Key: "alice.png", Name: "alice", Region: rect(120, 200, 132, 212), Pass: 3},
		},
		pass: 3,
		window: locator.WindowState{
			Handle:       7,
			Region:       rect(2020, 100, 2620, 600),
			MonitorIndex: 1,
			Monitor:      locator.MonitorArea{Index: 1, Bounds: rect(1920, 0, 3840, 1080)},
		},
		report:   markers.ScanReport{Added: []string{"carol.png"}},
		captured: rect(10, 20, 40, 60),
		label:    &session.Label{Key: "alice.png", Text: "Alice", Region: rect(136, 200, 296, 212)},
	}
}

func (f *fakeService) LocateMarkers() ([]matcher.Located, error) {
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	return f.located, nil
}

func (f *fakeService) Update() {
	f.updates++
	f.pass++
}

func (f *fakeService) ByIndex(i int) (matcher.Located, bool, error) {
	if len(f.located) == 0 {
		return matcher.Located{}, false, nil
	}
	i %= len(f.located)
	if i < 0 {
		i += len(f.located)
	}
	return f.located[i], true, nil
}

func (f *fakeService) ByName(partial string) (matcher.Located, bool, error) {
	for _, l := range f.located {
		if l.Name == partial {
			return l, true, nil
		}
	}
	return matcher.Located{}, false, nil
}

func (f *fakeService) Markers() []session.MarkerInfo {
	region := f.located[1].Region
	return []session.MarkerInfo{
		{Key: "alice.png", Name: "alice", Size: geometry.Pt(12, 12), LastRegion: &region, LastPass: 2},
		{Key: "carol.png", Name: "carol", Size: geometry.Pt(12, 12)},
	}
}

func (f *fakeService) CurrentPass() uint64 { return f.pass }

func (f *fakeService) Rescan() (markers.ScanReport, error) { return f.report, nil }

func (f *fakeService) WatchStats() session.WatchStats { return session.WatchStats{Scans: 4} }

func (f *fakeService) Window() (locator.WindowState, error) {
	return f.window, f.windowErr
}

func (f *fakeService) Capture(region *geometry.Rect) (*image.RGBA, geometry.Rect, error) {
	if f.windowErr != nil {
		return nil, geometry.Rect{}, f.windowErr
	}
	img := image.NewRGBA(image.Rect(0, 0, f.captured.Width(), f.captured.Height()))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 255, 255}), image.Point{}, draw.Src)
	return img, f.captured, nil
}

func (f *fakeService) Snapshot() (*session.Snapshot, error) {
	enc, err := imaging.EncodePNG(image.NewRGBA(image.Rect(0, 0, 50, 500)))
	if err != nil {
		return nil, err
	}
	return &session.Snapshot{Image: enc, Origin: geometry.Pt(116, 0), Markers: f.located}, nil
}

func (f *fakeService) Anchor() (session.AnchorInfo, error) {
	if f.anchorErr != nil {
		return session.AnchorInfo{}, f.anchorErr
	}
	return session.AnchorInfo{Screen: geometry.Pt(2252, 564), Window: geometry.Pt(232, 464)}, nil
}

func (f *fakeService) AnchorActive() (bool, error) {
	if f.anchorErr != nil {
		return false, f.anchorErr
	}
	return true, nil
}

func (f *fakeService) ReadLabel(partial string) (*session.Label, error) {
	if f.labelErr != nil {
		return nil, f.labelErr
	}
	return f.label, nil
}

var _ Service = (*fakeService)(nil)

// disabledAnchor makes the anchor tools fail the way an unconfigured anchor
// does.
func disabledAnchor(f *fakeService) *fakeService {
	f.anchorErr = anchor.ErrAnchorDisabled
	return f
}
