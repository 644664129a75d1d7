package geometry

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidRect is matched by every *GeometryError.
var ErrInvalidRect = errors.New("invalid rectangle")

// GeometryError reports an attempt to build a rectangle whose top-left corner
// is not above and to the left of its bottom-right corner.
type GeometryError struct {
	Min Point
	Max Point
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid rectangle: top-left %s must not exceed bottom-right %s", e.Min, e.Max)
}

// Is makes errors.Is(err, ErrInvalidRect) hold for geometry errors.
func (e *GeometryError) Is(target error) bool {
	return target == ErrInvalidRect
}

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns p translated by -d.
func (p Point) Sub(d Point) Point {
	return Point{X: p.X - d.X, Y: p.Y - d.Y}
}

// Clip clamps p into [minX,maxX] x [minY,maxY]. If a max is below its min the
// max is raised to the min.
func (p Point) Clip(minX, maxX, minY, maxY int) Point {
	return Point{X: clamp(p.X, minX, maxX), Y: clamp(p.Y, minY, maxY)}
}

func (p Point) String() string {
	return fmt.Sprintf("{%d,%d}", p.X, p.Y)
}

// Rect is an axis-aligned rectangle. Min is the top-left corner and Max the
// bottom-right; Min.X <= Max.X and Min.Y <= Max.Y always hold for values
// produced by this package.
//
// The zero Rect is valid and empty.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewRect builds a rectangle from its top-left and bottom-right corners.
func NewRect(topLeft, bottomRight Point) (Rect, error) {
	if topLeft.X > bottomRight.X || topLeft.Y > bottomRight.Y {
		return Rect{}, &GeometryError{Min: topLeft, Max: bottomRight}
	}
	return Rect{Min: topLeft, Max: bottomRight}, nil
}

// FromLTRB builds a rectangle from its left, top, right and bottom edges.
func FromLTRB(left, top, right, bottom int) (Rect, error) {
	return NewRect(Pt(left, top), Pt(right, bottom))
}

// FromOriginSize builds a rectangle from a top-left corner and a size.
// Negative sizes fail.
func FromOriginSize(x, y, width, height int) (Rect, error) {
	return NewRect(Pt(x, y), Pt(x+width, y+height))
}

// FromImageRect converts an image.Rectangle. The input is canonicalized first,
// so the conversion cannot fail.
func FromImageRect(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{Min: Pt(r.Min.X, r.Min.Y), Max: Pt(r.Max.X, r.Max.Y)}
}

// ImageRect converts r to an image.Rectangle with the same corners.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// X is the left edge.
func (r Rect) X() int { return r.Min.X }

// Y is the top edge.
func (r Rect) Y() int { return r.Min.Y }

// Width is Max.X - Min.X.
func (r Rect) Width() int { return r.Max.X - r.Min.X }

// Height is Max.Y - Min.Y.
func (r Rect) Height() int { return r.Max.Y - r.Min.Y }

// Size returns the width and height as a point.
func (r Rect) Size() Point { return Pt(r.Width(), r.Height()) }

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Contains reports whether p lies inside r. All four edges are inclusive, so
// Max itself is contained.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Clip returns the largest sub-rectangle of r that fits inside the bounds
// [minX,maxX] x [minY,maxY]. The top-left corner is clamped into the bounds
// first and the bottom-right corner is then clamped so that it never lands
// above or left of it; the result is therefore always a valid rectangle, empty
// when r lies entirely outside the bounds.
func (r Rect) Clip(minX, maxX, minY, maxY int) Rect {
	tl := r.Min.Clip(minX, maxX, minY, maxY)
	br := r.Max.Clip(max(minX, tl.X), maxX, max(minY, tl.Y), maxY)
	return Rect{Min: tl, Max: br}
}

// ClipTo clips r to another rectangle.
func (r Rect) ClipTo(bounds Rect) Rect {
	return r.Clip(bounds.Min.X, bounds.Max.X, bounds.Min.Y, bounds.Max.Y)
}

// Center returns the top-left corner plus half the size, each half truncated
// toward zero.
func (r Rect) Center() Point {
	return r.Min.Add(Pt(r.Width()/2, r.Height()/2))
}

// Corner names one of the four corners of a rectangle.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// ParseCorner accepts "tl", "tr", "br" and "bl" (and the long forms
// "top-left" etc.).
func ParseCorner(s string) (Corner, error) {
	switch s {
	case "tl", "top-left", "":
		return TopLeft, nil
	case "tr", "top-right":
		return TopRight, nil
	case "br", "bottom-right":
		return BottomRight, nil
	case "bl", "bottom-left":
		return BottomLeft, nil
	default:
		return TopLeft, fmt.Errorf("unknown corner: %s", s)
	}
}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "tl"
	case TopRight:
		return "tr"
	case BottomRight:
		return "br"
	case BottomLeft:
		return "bl"
	}
	return fmt.Sprintf("Corner(%d)", int(c))
}

// Corners returns the corners in the order top-left, top-right, bottom-right,
// bottom-left.
//
// With zeroIndexed false the far corners sit on Max (one past the last pixel).
// With zeroIndexed true they are the last pixel inside r, i.e. Max minus one on
// each far axis; for an empty axis that is one less than Min.
func (r Rect) Corners(zeroIndexed bool) [4]Point {
	right, bottom := r.Max.X, r.Max.Y
	if zeroIndexed {
		right--
		bottom--
	}
	return [4]Point{
		Pt(r.Min.X, r.Min.Y),
		Pt(right, r.Min.Y),
		Pt(right, bottom),
		Pt(r.Min.X, bottom),
	}
}

// Corner returns a single corner using the exclusive convention.
func (r Rect) Corner(c Corner) Point {
	corners := r.Corners(false)
	if c < TopLeft || c > BottomLeft {
		return corners[TopLeft]
	}
	return corners[c]
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect{x:%d,y:%d,w:%d,h:%d}", r.Min.X, r.Min.Y, r.Width(), r.Height())
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
