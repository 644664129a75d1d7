// Package screen adapts the operating system's displays and windows to the
// locator's service interfaces.
//
// Displays enumerates monitors and captures rectangles through
// github.com/kbinani/screenshot. FullDisplayCapture is a slower fallback that
// captures a whole display and crops it, for drivers that reject partial
// captures. WithFallback chains two frame sources.
//
// WindowFinder finds top-level windows by title. It is implemented on Windows
// over user32; on other platforms every call fails with ErrUnsupported.
package screen
