package core

// scheduler.go runs the background sweep that drops expired conversions.
//
// The sweeper is long-running and context-aware: it stops when the context
// passed to StartSweeper is cancelled, which main does on shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when a non-positive interval is given.
const DefaultSweepInterval = time.Minute

// StartSweeper removes expired results every interval until ctx is done.
// It sweeps once immediately on start.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("result sweeper started", "interval", interval)

	s.runSweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("result sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

// runSweep performs one sweep and logs what it removed.
func (s *Service) runSweep() {
	start := time.Now()
	removed := s.store.Sweep()
	if removed == 0 {
		return
	}
	slog.Info("expired conversions removed",
		"removed", removed,
		"remaining", s.store.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
