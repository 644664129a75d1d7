// Package matcher finds markers in a captured frame.
//
// Matching is pixel-exact and runs in two stages per marker. The fast-reject
// stage samples five pixels of the marker (its four corners and its center)
// and builds a mask of every placement in the frame where all five agree. The
// verify stage walks the surviving placements in row-major order and compares
// the full marker; the first placement that matches wins.
//
// Every call to Matcher.Locate is a numbered pass. A marker found by the pass
// has its region recorded with that pass number; a marker that is not found
// keeps whatever region an earlier pass recorded.
package matcher
