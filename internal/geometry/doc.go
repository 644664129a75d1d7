// Package geometry provides the integer point and rectangle types shared by
// the locator, the matcher and the marker registry.
//
// # Coordinate System
//
// Every coordinate space in this module (window-relative, monitor-relative
// and virtual-screen-absolute) uses the same convention:
//   - X increases rightward
//   - Y increases downward
//   - (0,0) is the top-left of the space
//
// A Rect stores its top-left corner in Min and its bottom-right corner in Max.
// Width and Height are Max minus Min, so a Rect built from an origin and a size
// has Max exclusive of the last pixel column and row. Corners can be reported
// either way; see Rect.Corners.
//
// # Arithmetic
//
// All arithmetic is exact integer arithmetic. The only division, used by
// Rect.Center, is Go integer division and therefore truncates toward zero.
//
// # Errors
//
// Construction is the only operation that can fail: a rectangle whose top-left
// lies right of or below its bottom-right is rejected with a *GeometryError,
// which matches ErrInvalidRect under errors.Is. Every other operation is total.
package geometry
