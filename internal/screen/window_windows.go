//go:build windows

package screen

import (
	"fmt"
	"regexp"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows         = user32.NewProc("EnumWindows")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowTextLength = user32.NewProc("GetWindowTextLengthW")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procIsWindow            = user32.NewProc("IsWindow")
	procIsIconic            = user32.NewProc("IsIconic")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procShowWindow          = user32.NewProc("ShowWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
)

const swRestore = 9

// WindowFinder finds visible top-level windows whose title matches a regular
// expression.
type WindowFinder struct{}

// NewWindowFinder returns the user32 window backend.
func NewWindowFinder() *WindowFinder {
	return &WindowFinder{}
}

// enumCallback is created once: callbacks made by windows.NewCallback are
// never released and a process may only create a limited number of them.
// enum holds the state of the enumeration in progress.
var (
	enumCallback = windows.NewCallback(enumWindow)

	enumMu sync.Mutex
	enum   struct {
		re      *regexp.Regexp
		handles []locator.Handle
	}
)

func enumWindow(hwnd uintptr, _ uintptr) uintptr {
	if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
		return 1
	}
	if title := windowText(hwnd); title != "" && enum.re.MatchString(title) {
		enum.handles = append(enum.handles, locator.Handle(hwnd))
	}
	return 1 // continue enumeration
}

// FindWindows returns every visible top-level window whose title matches
// pattern.
func (w *WindowFinder) FindWindows(pattern string) ([]locator.Handle, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid window title pattern: %w", err)
	}

	enumMu.Lock()
	defer enumMu.Unlock()
	enum.re, enum.handles = re, nil
	procEnumWindows.Call(enumCallback, 0)
	handles := enum.handles
	enum.re, enum.handles = nil, nil
	return handles, nil
}

func windowText(hwnd uintptr) string {
	n, _, _ := procGetWindowTextLength.Call(hwnd)
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

// WindowRect returns the window's outer rectangle in virtual-screen
// coordinates.
func (w *WindowFinder) WindowRect(h locator.Handle) (geometry.Rect, error) {
	var r windows.Rect
	ret, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return geometry.Rect{}, fmt.Errorf("GetWindowRect failed: %w", err)
	}
	return geometry.FromLTRB(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

// IsWindow reports whether h still refers to a window.
func (w *WindowFinder) IsWindow(h locator.Handle) bool {
	ret, _, _ := procIsWindow.Call(uintptr(h))
	return ret != 0
}

// Activate brings the window to the foreground, restoring it first if it is
// minimized.
func (w *WindowFinder) Activate(h locator.Handle) error {
	if iconic, _, _ := procIsIconic.Call(uintptr(h)); iconic != 0 {
		procShowWindow.Call(uintptr(h), swRestore)
	}
	if ret, _, err := procSetForegroundWindow.Call(uintptr(h)); ret == 0 {
		return fmt.Errorf("SetForegroundWindow failed: %w", err)
	}
	return nil
}
