//go:build windows

package screen

import (
	"testing"
)

func TestWindowFinder_InvalidPattern(t *testing.T) {
	if _, err := NewWindowFinder().FindWindows("("); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}

// Each FindWindows enumerates through the same callback, so polling for a
// missing window can go on indefinitely. The runtime panics after about 2000
// distinct callbacks.
func TestWindowFinder_RepeatedSearches(t *testing.T) {
	if testing.Short() {
		t.Skip("enumerates top-level windows 2500 times")
	}
	w := NewWindowFinder()
	for i := 0; i < 2500; i++ {
		handles, err := w.FindWindows(`^no window has this title \x00$`)
		if err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
		if len(handles) != 0 {
			t.Fatalf("search %d matched %d windows", i, len(handles))
		}
	}
}

func TestWindowFinder_StaleHandle(t *testing.T) {
	w := NewWindowFinder()
	if w.IsWindow(0) {
		t.Error("handle 0 is never a window")
	}
	if _, err := w.WindowRect(0); err == nil {
		t.Error("WindowRect of handle 0 should fail")
	}
}
