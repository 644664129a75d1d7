package matcher

import (
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
	"github.com/ironsheep/screen-marker-mcp/internal/markers"
)

// Located is a marker found by one pass.
type Located struct {
	Key    string        `json:"key"`
	Name   string        `json:"name"`
	Region geometry.Rect `json:"region"`
	Pass   uint64        `json:"pass"`
}

// Options configures a Matcher.
type Options struct {
	// Workers bounds how many markers are searched concurrently. Zero or one
	// searches them one after another on the calling goroutine.
	Workers int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Matcher runs numbered match passes. It is not safe for concurrent use.
type Matcher struct {
	opts Options
	pass uint64
}

// New creates a Matcher. The first pass is number 1.
func New(opts Options) *Matcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Matcher{opts: opts}
}

// Pass returns the number of the most recent pass, or 0 before the first.
func (m *Matcher) Pass() uint64 {
	return m.pass
}

// Locate runs one pass over frame. origin is the position of the frame's
// top-left pixel in the coordinate space the regions are reported in.
//
// Each marker found is recorded on the marker and returned; the rest keep
// their previous region. The result is sorted by region top edge, and
// markers at the same height keep the order they were given in.
func (m *Matcher) Locate(frame *imaging.Grid, origin geometry.Point, ms []*markers.Marker) []Located {
	if frame == nil {
		frame = imaging.NewGrid(0, 0)
	}
	m.pass++
	pass := m.pass
	start := time.Now()

	found := make([]geometry.Point, len(ms))
	ok := make([]bool, len(ms))

	if m.opts.Workers == 1 {
		for i, mk := range ms {
			found[i], ok[i] = Find(frame, mk.Pixels)
		}
	} else {
		// Searches only read frame and their own marker; results land in
		// per-index slots and are recorded below in input order.
		var g errgroup.Group
		g.SetLimit(m.opts.Workers)
		for i, mk := range ms {
			g.Go(func() error {
				found[i], ok[i] = Find(frame, mk.Pixels)
				return nil
			})
		}
		g.Wait()
	}

	located := make([]Located, 0, len(ms))
	for i, mk := range ms {
		if !ok[i] {
			continue
		}
		w, h := mk.Size()
		region := geometry.Rect{Min: found[i], Max: found[i].Add(geometry.Pt(w, h))}.Translate(origin)
		mk.Record(region, pass)
		located = append(located, Located{Key: mk.Key, Name: mk.Name, Region: region, Pass: pass})
	}

	sort.SliceStable(located, func(i, j int) bool {
		return located[i].Region.Min.Y < located[j].Region.Min.Y
	})

	m.opts.Logger.Debug("match pass",
		"pass", pass,
		"markers", len(ms),
		"located", len(located),
		"frame", geometry.Pt(frame.W, frame.H),
		"elapsed", time.Since(start))
	return located
}
