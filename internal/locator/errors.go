package locator

import "errors"

var (
	// ErrWindowNotFound means no single window matched the title pattern.
	// It covers both zero and several matches and is worth retrying later.
	ErrWindowNotFound = errors.New("window not found")

	// ErrMonitorNotFound means the window center lies outside every display.
	ErrMonitorNotFound = errors.New("no monitor contains the window")

	// ErrNotResolved is returned by operations that need a prior successful
	// Resolve.
	ErrNotResolved = errors.New("window not resolved")
)
