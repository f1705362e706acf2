package core

import (
	"sync"
	"time"
)

// Session is one editor sheet plus the lock that serializes access to it.
type Session struct {
	ID string

	mu       sync.Mutex
	sheet    *Sheet
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, sheet: NewSheet(), lastSeen: now}
}

// Update runs fn with exclusive access to the sheet and returns the view
// after fn ran. The view is returned even when fn fails.
func (s *Session) Update(fn func(*Sheet) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = time.Now()
	err := fn(s.sheet)
	return s.sheet.View(), err
}

// View returns a snapshot of the sheet.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = time.Now()
	return s.sheet.View()
}

// Read runs fn with exclusive access to the sheet without changing it.
// Exports use it to stream the projection.
func (s *Session) Read(fn func(*Sheet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = time.Now()
	return fn(s.sheet)
}

// LastSeen returns when the session was last touched.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
