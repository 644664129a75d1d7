package markers

import "errors"

// ErrUnknownMarker is returned when a key is not in the registry.
var ErrUnknownMarker = errors.New("unknown marker")

// ErrNoMarkerDir is returned by NewDirCollection for an unusable directory.
var ErrNoMarkerDir = errors.New("marker directory not found")
