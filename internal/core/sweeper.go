package core

// sweeper.go evicts idle sessions in the background.
//
// Sessions live in memory only, so an abandoned browser tab would otherwise
// hold its dataset forever. The sweeper runs on a ticker until its context
// is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often the sweeper runs when none is given.
const DefaultSweepInterval = 5 * time.Minute

// Sweep closes every session idle longer than the configured timeout and
// returns how many were closed.
func (s *Service) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.cfg.IdleTimeout {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
// It blocks, so callers run it in a goroutine.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	slog.Info("session sweeper started",
		"interval", interval,
		"idle_timeout", s.cfg.IdleTimeout,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

func (s *Service) runSweep() {
	start := time.Now()
	evicted := s.Sweep(s.now())
	if evicted == 0 {
		return
	}
	slog.Info("evicted idle sessions",
		"sessions_evicted", evicted,
		"sessions_open", s.Count(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
