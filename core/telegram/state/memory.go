package state

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// MemoryOption customizes the in-memory manager.
type MemoryOption func(*memoryManager)

// WithTTL expires sessions that were not saved for longer than ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *memoryManager) { m.ttl = ttl }
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *memoryManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryManager constructs an in-memory Manager implementation.
func NewMemoryManager(opts ...MemoryOption) Manager {
	m := &memoryManager{
		sessions: make(map[int64]memoryEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a copy of the user's session, or an idle session when none is stored.
func (m *memoryManager) Get(_ context.Context, userID int64) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok {
		return idleSession(), nil
	}
	if m.expired(entry) {
		m.mu.Lock()
		if cur, still := m.sessions[userID]; still && m.expired(cur) {
			delete(m.sessions, userID)
		}
		m.mu.Unlock()
		return idleSession(), nil
	}
	return entry.session.clone(), nil
}

// Save stores the session; an idle session clears the user instead.
func (m *memoryManager) Save(ctx context.Context, userID int64, s *Session) error {
	if s == nil {
		return ErrNilSession
	}
	if !s.Active() {
		return m.Clear(ctx, userID)
	}
	cp := s.clone()
	cp.UpdatedAt = m.now()
	entry := memoryEntry{session: cp}
	if m.ttl > 0 {
		entry.expiresAt = cp.UpdatedAt.Add(m.ttl)
	}
	m.mu.Lock()
	m.sessions[userID] = entry
	m.mu.Unlock()
	return nil
}

// Clear removes the entire session for a user.
func (m *memoryManager) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// InProgress reports whether the user currently has an active state.
func (m *memoryManager) InProgress(ctx context.Context, userID int64) (bool, error) {
	s, err := m.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.Active(), nil
}

func (m *memoryManager) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}
