package session

import "errors"

var (
	// ErrNotLocated is returned for a marker that the latest pass did not find.
	ErrNotLocated = errors.New("marker not located in the window")

	// ErrNoLabelReader is returned when label reading is not configured.
	ErrNoLabelReader = errors.New("label reading is not configured")
)
