package matcher

import (
	"bytes"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
)

// samplePoints returns the fast-reject samples for a w x h marker: the four
// zero-indexed corners followed by the truncated center.
func samplePoints(w, h int) [5]geometry.Point {
	r := geometry.Rect{Max: geometry.Pt(w, h)}
	c := r.Corners(true)
	return [5]geometry.Point{c[0], c[1], c[2], c[3], r.Center()}
}

// candidates returns the placement mask for pattern in frame. Placement
// (x, y) is at index y*cols+x and is true when every sample agrees.
func candidates(frame, pattern *imaging.Grid) (mask []bool, cols, rows int) {
	cols = frame.W - pattern.W + 1
	rows = frame.H - pattern.H + 1
	mask = make([]bool, cols*rows)
	for i := range mask {
		mask[i] = true
	}

	for _, s := range samplePoints(pattern.W, pattern.H) {
		want := pattern.At(s.X, s.Y)
		for y := 0; y < rows; y++ {
			row := mask[y*cols : (y+1)*cols]
			for x := range row {
				if row[x] && frame.At(x+s.X, y+s.Y) != want {
					row[x] = false
				}
			}
		}
	}
	return mask, cols, rows
}

// verify compares the full pattern against frame at placement (x, y).
func verify(frame, pattern *imaging.Grid, x, y int) bool {
	for py := 0; py < pattern.H; py++ {
		if !bytes.Equal(frame.Row(y+py, x, x+pattern.W), pattern.Row(py, 0, pattern.W)) {
			return false
		}
	}
	return true
}

// Find returns the top-left corner of the first exact occurrence of pattern
// in frame, scanning placements in row-major order. ok is false when there is
// no occurrence, when pattern is empty, or when pattern is larger than frame
// in either dimension.
func Find(frame, pattern *imaging.Grid) (at geometry.Point, ok bool) {
	if pattern == nil || frame == nil || pattern.Empty() || pattern.W > frame.W || pattern.H > frame.H {
		return geometry.Point{}, false
	}

	mask, cols, rows := candidates(frame, pattern)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask[y*cols+x] && verify(frame, pattern, x, y) {
				return geometry.Pt(x, y), true
			}
		}
	}
	return geometry.Point{}, false
}

// FindAll returns every exact occurrence of pattern in row-major order.
func FindAll(frame, pattern *imaging.Grid) []geometry.Point {
	if pattern == nil || frame == nil || pattern.Empty() || pattern.W > frame.W || pattern.H > frame.H {
		return nil
	}

	var out []geometry.Point
	mask, cols, rows := candidates(frame, pattern)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask[y*cols+x] && verify(frame, pattern, x, y) {
				out = append(out, geometry.Pt(x, y))
			}
		}
	}
	return out
}
