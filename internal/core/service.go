package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServiceConfig holds the limits of a Service.
// Zero values select the defaults.
type ServiceConfig struct {
	MaxFileSize   int64         // Upload limit in bytes (default: 10MB)
	MaxConcurrent int           // Parallel imports (default: 5)
	MaxWait       time.Duration // Wait for an import slot (default: 30s)
	IdleTimeout   time.Duration // Evict sessions idle this long (default: 1h)
	MaxSessions   int           // Open sessions, 0 for unlimited
}

// DefaultIdleTimeout is how long an untouched session survives.
const DefaultIdleTimeout = time.Hour

// Service owns the editor sessions of the web frontend.
type Service struct {
	cfg     ServiceConfig
	limiter *ImportLimiter

	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

// NewService creates a Service with no sessions.
func NewService(cfg ServiceConfig) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Service{
		cfg:      cfg,
		limiter:  NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Config returns the effective configuration.
func (s *Service) Config() ServiceConfig {
	return s.cfg
}

// Limiter returns the import limiter, for status reporting and shutdown.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// Open creates a session in the upload state and returns it.
func (s *Service) Open(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	sess := newSession(uuid.NewString(), s.now())
	s.sessions[sess.ID] = sess

	slog.DebugContext(ctx, "session opened", "session_id", sess.ID, "sessions", len(s.sessions))
	return sess, nil
}

// Get returns the session with the given id.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close removes a session. Closing an unknown id is a no-op.
func (s *Service) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count returns the number of open sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Import parses an upload into the session's sheet.
//
// The sheet is marked uploading while the file is parsed outside the
// session lock, so reads stay responsive. A second import into the same
// session fails with ErrImportInProgress. On failure the sheet keeps its
// previous state and the error is returned for the caller to report. A sheet
// reset while the file is parsed stays reset.
func (s *Service) Import(ctx context.Context, id, fileName, contentType string, r io.Reader, size int64) (View, error) {
	sess, err := s.Get(id)
	if err != nil {
		return View{}, err
	}

	if size > s.cfg.MaxFileSize {
		return sess.View(), fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, s.cfg.MaxFileSize)
	}

	var ticket uint64
	if _, err := sess.Update(func(sh *Sheet) (err error) {
		ticket, err = sh.BeginImport()
		return err
	}); err != nil {
		return sess.View(), err
	}

	ds, err := s.parse(ctx, fileName, contentType, r)

	stale := false
	view, _ := sess.Update(func(sh *Sheet) error {
		current := sh.EndImport(ticket)
		if err == nil && current {
			sh.Load(ds)
		}
		stale = !current
		return nil
	})
	if err == nil && stale {
		slog.InfoContext(ctx, "import discarded after reset",
			"session_id", id,
			"file", fileName,
		)
		return view, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "import failed",
			"session_id", id,
			"file", fileName,
			"error", err,
		)
		return view, err
	}

	slog.InfoContext(ctx, "import completed",
		"session_id", id,
		"file", fileName,
		"rows", len(ds.Rows),
		"columns", len(ds.Columns),
	)
	return view, nil
}

func (s *Service) parse(ctx context.Context, fileName, contentType string, r io.Reader) (Dataset, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return Dataset{}, err
	}
	defer s.limiter.Release()

	start := time.Now()
	ds, err := ParseFile(fileName, contentType, r, s.cfg.MaxFileSize)
	slog.DebugContext(ctx, "parse finished",
		"file", fileName,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, err
}
