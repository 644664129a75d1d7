// Package anchor locates a fixed UI control whose position is known only
// approximately relative to a corner of the tracked window.
//
// A box of Options.Radius around the approximate position is captured,
// thresholded on its red channel and compared against a thresholded template
// under a mask. The placement with the smallest masked squared difference
// wins. The resulting center is cached and only recomputed when it expires
// or the window moves.
package anchor
