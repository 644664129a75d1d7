package session

import (
	"context"
	"sync/atomic"
	"time"
)

// WatchStats are point-in-time registry watch counters.
type WatchStats struct {
	Scans     int64         `json:"scans"`
	Changes   int64         `json:"changes"`
	Errors    int64         `json:"errors"`
	AvgScan   time.Duration `json:"avg_scan"`
	LastError string        `json:"last_error,omitempty"`
}

type watchStats struct {
	scans   atomic.Int64
	changes atomic.Int64
	errors  atomic.Int64
	scanNs  atomic.Int64
	lastErr atomic.Value // string
}

// WatchStats returns the counters of the registry watch loop.
func (s *Session) WatchStats() WatchStats {
	st := WatchStats{
		Scans:   s.watch.scans.Load(),
		Changes: s.watch.changes.Load(),
		Errors:  s.watch.errors.Load(),
	}
	if st.Scans > 0 {
		st.AvgScan = time.Duration(s.watch.scanNs.Load() / st.Scans)
	}
	if v, ok := s.watch.lastErr.Load().(string); ok {
		st.LastError = v
	}
	return st
}

// Watch rescans the marker registry every WatchInterval until ctx is
// cancelled. Scan failures are logged and retried on the next tick. It
// always returns nil so it can run under an errgroup without stopping its
// siblings.
func (s *Session) Watch(ctx context.Context) error {
	log := s.opts.Logger
	ticker := time.NewTicker(s.opts.WatchInterval)
	defer ticker.Stop()

	log.Info("watch: started", "interval", s.opts.WatchInterval)
	for {
		select {
		case <-ctx.Done():
			log.Info("watch: stopped")
			return nil
		case <-ticker.C:
			s.watchOnce()
		}
	}
}

// watchOnce runs one rescan and updates the counters.
func (s *Session) watchOnce() {
	log := s.opts.Logger
	start := time.Now()
	report, err := s.Rescan()
	s.watch.scans.Add(1)
	s.watch.scanNs.Add(int64(time.Since(start)))

	if err != nil {
		s.watch.errors.Add(1)
		s.watch.lastErr.Store(err.Error())
		log.Warn("watch: rescan failed", "error", err)
		return
	}
	if report.Changed() {
		s.watch.changes.Add(1)
		log.Info("watch: markers changed",
			"added", len(report.Added),
			"reloaded", len(report.Reloaded),
			"unloaded", len(report.Unloaded),
			"failed", len(report.Failed))
	}
}
