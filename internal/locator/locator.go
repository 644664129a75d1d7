package locator

import (
	"fmt"
	"log/slog"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

// Options configures a Locator.
type Options struct {
	// Pattern is the window title pattern handed to the window service.
	Pattern string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Locator owns the window and monitor state for one window title pattern.
// It is not safe for concurrent use.
type Locator struct {
	windows  WindowService
	monitors MonitorService
	opts     Options

	handle    Handle
	hasHandle bool

	state    WindowState
	resolved bool
}

// New creates a Locator. Nothing is resolved until the first Resolve.
func New(windows WindowService, monitors MonitorService, opts Options) *Locator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Locator{windows: windows, monitors: monitors, opts: opts}
}

// Pattern returns the window title pattern.
func (l *Locator) Pattern() string {
	return l.opts.Pattern
}

// Resolve finds the window and returns its current state.
//
// The display is re-chosen only when the window rectangle differs from the
// one seen by the last successful Resolve; it is the display containing the
// window's center pixel. On error the previous state is kept.
func (l *Locator) Resolve() (WindowState, error) {
	h, err := l.findHandle()
	if err != nil {
		return WindowState{}, err
	}

	region, err := l.windows.WindowRect(h)
	if err != nil {
		l.hasHandle = false
		return WindowState{}, fmt.Errorf("%w: failed to read window rectangle: %v", ErrWindowNotFound, err)
	}

	if l.resolved && region == l.state.Region {
		l.state.Handle = h
		return l.state, nil
	}

	monitor, err := l.monitorFor(region)
	if err != nil {
		return WindowState{}, err
	}
	if !l.resolved || monitor.Index != l.state.MonitorIndex {
		l.opts.Logger.Info("window monitor changed", "monitor", monitor.Index, "bounds", monitor.Bounds.String())
	}

	l.state = WindowState{
		Handle:       h,
		Region:       region,
		MonitorIndex: monitor.Index,
		Monitor:      monitor,
	}
	l.resolved = true
	return l.state, nil
}

// State returns the state from the last successful Resolve.
func (l *Locator) State() (WindowState, bool) {
	return l.state, l.resolved
}

// Region returns the window rectangle reported by the window service right
// now, or ok=false if the window cannot be found. It does not change the
// locator's state beyond the cached handle, which makes it suitable as a
// freshness probe.
func (l *Locator) Region() (geometry.Rect, bool) {
	h, err := l.findHandle()
	if err != nil {
		return geometry.Rect{}, false
	}
	r, err := l.windows.WindowRect(h)
	if err != nil {
		return geometry.Rect{}, false
	}
	return r, true
}

// Activate brings the window to the foreground if the window service
// supports it.
func (l *Locator) Activate() error {
	a, ok := l.windows.(Activator)
	if !ok {
		return fmt.Errorf("window service cannot activate windows")
	}
	h, err := l.findHandle()
	if err != nil {
		return err
	}
	if err := a.Activate(h); err != nil {
		return fmt.Errorf("failed to activate window: %w", err)
	}
	return nil
}

func (l *Locator) findHandle() (Handle, error) {
	if l.hasHandle {
		if v, ok := l.windows.(HandleValidator); ok && v.IsWindow(l.handle) {
			return l.handle, nil
		}
		l.hasHandle = false
	}

	handles, err := l.windows.FindWindows(l.opts.Pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
	}
	switch len(handles) {
	case 0:
		return 0, fmt.Errorf("%w: no window matches %q", ErrWindowNotFound, l.opts.Pattern)
	case 1:
		l.handle, l.hasHandle = handles[0], true
		return handles[0], nil
	default:
		l.opts.Logger.Warn("more than one window matches", "pattern", l.opts.Pattern, "count", len(handles))
		return 0, fmt.Errorf("%w: %d windows match %q", ErrWindowNotFound, len(handles), l.opts.Pattern)
	}
}

func (l *Locator) monitorFor(region geometry.Rect) (MonitorArea, error) {
	monitors, err := l.monitors.ListMonitors()
	if err != nil {
		return MonitorArea{}, fmt.Errorf("failed to list monitors: %w", err)
	}
	center := region.Center()
	for i, b := range monitors {
		if b.Contains(center) {
			return MonitorArea{Index: i, Bounds: b}, nil
		}
	}
	return MonitorArea{}, fmt.Errorf("%w: center %s", ErrMonitorNotFound, center)
}

// Monitors lists the displays known to the monitor service.
func (l *Locator) Monitors() ([]MonitorArea, error) {
	rects, err := l.monitors.ListMonitors()
	if err != nil {
		return nil, fmt.Errorf("failed to list monitors: %w", err)
	}
	out := make([]MonitorArea, len(rects))
	for i, r := range rects {
		out[i] = MonitorArea{Index: i, Bounds: r}
	}
	return out, nil
}
