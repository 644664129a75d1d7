package matcher

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
	"github.com/ironsheep/screen-marker-mcp/internal/markers"
)

func newTestMatcher() *Matcher {
	return New(Options{Workers: 2, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func marker(key string, pixels *imaging.Grid) *markers.Marker {
	return &markers.Marker{Key: key, Name: key, Pixels: pixels}
}

func TestLocate_SortedByTopEdge(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	frame := noiseGrid(rng, 50, 200)
	a := marker("a", noiseGrid(rng, 12, 12))
	b := marker("b", noiseGrid(rng, 12, 12))
	c := marker("c", noiseGrid(rng, 12, 12))
	paste(frame, a.Pixels, 5, 150)
	paste(frame, b.Pixels, 30, 10)
	paste(frame, c.Pixels, 5, 80)

	m := newTestMatcher()
	got := m.Locate(frame, geometry.Point{}, []*markers.Marker{a, b, c})

	wantKeys := []string{"b", "c", "a"}
	if len(got) != 3 {
		t.Fatalf("Locate: got %d results, want 3", len(got))
	}
	for i, k := range wantKeys {
		if got[i].Key != k {
			t.Errorf("result %d: got %s, want %s", i, got[i].Key, k)
		}
		if got[i].Pass != 1 {
			t.Errorf("result %d: pass %d, want 1", i, got[i].Pass)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Region.Min.Y > got[i].Region.Min.Y {
			t.Errorf("results not sorted by top edge: %v", got)
		}
	}
}

func TestLocate_StableForEqualTops(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	frame := noiseGrid(rng, 80, 40)
	ms := make([]*markers.Marker, 4)
	for i := range ms {
		ms[i] = marker(string(rune('a'+i)), noiseGrid(rng, 10, 10))
		paste(frame, ms[i].Pixels, 70-i*20, 15)
	}

	got := newTestMatcher().Locate(frame, geometry.Point{}, ms)
	for i := range ms {
		if got[i].Key != ms[i].Key {
			t.Errorf("equal tops should keep input order: got %s at %d", got[i].Key, i)
		}
	}
}

func TestLocate_OriginOffset(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	frame := noiseGrid(rng, 50, 100)
	mk := marker("m", noiseGrid(rng, 12, 12))
	paste(frame, mk.Pixels, 3, 40)

	got := newTestMatcher().Locate(frame, geometry.Pt(116, 0), []*markers.Marker{mk})
	want := geometry.Rect{Min: geometry.Pt(119, 40), Max: geometry.Pt(131, 52)}
	if len(got) != 1 || got[0].Region != want {
		t.Fatalf("Locate: got %+v, want region %s", got, want)
	}
	if region, _, _ := mk.LastRegion(); region != want {
		t.Errorf("recorded region: got %s", region)
	}
}

func TestLocate_MissKeepsPreviousRegion(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pixels := noiseGrid(rng, 12, 12)
	mk := marker("m", pixels)

	frame := noiseGrid(rng, 40, 40)
	paste(frame, pixels, 10, 20)

	m := newTestMatcher()
	m.Locate(frame, geometry.Point{}, []*markers.Marker{mk})
	first, firstPass, ok := mk.LastRegion()
	if !ok || firstPass != 1 {
		t.Fatalf("first pass: ok=%v pass=%d", ok, firstPass)
	}

	empty := solidGrid(40, 40, imaging.RGB{0, 0, 0})
	got := m.Locate(empty, geometry.Point{}, []*markers.Marker{mk})
	if len(got) != 0 {
		t.Errorf("marker should not be located in an empty frame: %+v", got)
	}
	if m.Pass() != 2 {
		t.Errorf("Pass: got %d, want 2", m.Pass())
	}

	region, pass, ok := mk.LastRegion()
	if !ok || region != first {
		t.Errorf("missed marker should keep its previous region: got %s", region)
	}
	if pass != 1 {
		t.Errorf("stale region should report the pass that found it: got %d", pass)
	}
}

func TestLocate_OversizedAndEmptyMarkers(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	frame := noiseGrid(rng, 20, 20)
	big := marker("big", noiseGrid(rng, 30, 5))
	empty := marker("empty", imaging.NewGrid(0, 0))
	unloaded := marker("nil", nil)

	got := newTestMatcher().Locate(frame, geometry.Point{}, []*markers.Marker{big, empty, unloaded})
	if len(got) != 0 {
		t.Errorf("got %+v, want nothing located", got)
	}
	if _, _, ok := big.LastRegion(); ok {
		t.Error("oversized marker must not be recorded")
	}
}

func TestLocate_OverlappingMarkers(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	frame := noiseGrid(rng, 40, 40)
	outer := noiseGrid(rng, 12, 12)
	paste(frame, outer, 5, 5)

	// inner is a sub-block of outer, so both match overlapping areas.
	inner := imaging.NewGrid(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inner.Set(x, y, outer.At(x+2, y+3))
		}
	}

	got := newTestMatcher().Locate(frame, geometry.Point{}, []*markers.Marker{marker("outer", outer), marker("inner", inner)})
	if len(got) != 2 {
		t.Fatalf("both markers should be located independently: %+v", got)
	}
	if got[0].Key != "outer" || got[1].Key != "inner" {
		t.Errorf("order: got %s, %s", got[0].Key, got[1].Key)
	}
	if got[1].Region.Min != geometry.Pt(7, 8) {
		t.Errorf("inner region: got %s", got[1].Region)
	}
}

func TestLocate_NilFrame(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := newTestMatcher().Locate(nil, geometry.Point{}, []*markers.Marker{marker("m", noiseGrid(rng, 2, 2))})
	if len(got) != 0 {
		t.Errorf("nil frame: got %+v", got)
	}
}

func TestLocate_SequentialByDefault(t *testing.T) {
	if w := New(Options{}).opts.Workers; w != 1 {
		t.Fatalf("default workers: got %d, want 1", w)
	}

	build := func() (*imaging.Grid, []*markers.Marker) {
		rng := rand.New(rand.NewSource(23))
		frame := noiseGrid(rng, 60, 120)
		ms := make([]*markers.Marker, 6)
		for i := range ms {
			ms[i] = marker(string(rune('a'+i)), noiseGrid(rng, 8, 8))
			if i%2 == 0 {
				paste(frame, ms[i].Pixels, 4+i*8, 100-i*15)
			}
		}
		return frame, ms
	}

	frame, ms := build()
	sequential := New(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}).Locate(frame, geometry.Pt(3, 4), ms)
	frame, ms = build()
	parallel := New(Options{Workers: 4, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}).Locate(frame, geometry.Pt(3, 4), ms)

	if len(sequential) != 3 || len(parallel) != len(sequential) {
		t.Fatalf("located %d sequentially and %d in parallel, want 3", len(sequential), len(parallel))
	}
	for i := range sequential {
		if sequential[i] != parallel[i] {
			t.Errorf("result %d: sequential %+v, parallel %+v", i, sequential[i], parallel[i])
		}
	}
}
