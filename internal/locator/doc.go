// Package locator resolves a titled application window to a screen rectangle
// and maps it onto one of the enumerated displays.
//
// Three coordinate spaces are in play, all with X right and Y down:
//
//   - virtual screen: the desktop spanning every display; a display's
//     top-left may be negative
//   - monitor: relative to the top-left of the display holding the window
//   - window: relative to the top-left of the window
//
// WindowState carries everything needed to convert between them, and
// Locator.Resolve produces a new WindowState on every call. The display is
// only re-chosen when the window rectangle changed since the last successful
// resolution.
package locator
