package core

// store.go keeps one Session per client and evicts idle ones.
//
// Sessions share nothing but immutable Datasets, so the store lock only
// guards the map; transitions inside a Session take that session's own lock.
// The sweeper runs until its context is cancelled, logging each pass.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an unused session is kept.
const DefaultSessionTTL = 30 * time.Minute

// DefaultSweepInterval is how often idle sessions are evicted.
const DefaultSweepInterval = 5 * time.Minute

// SessionStore holds sessions keyed by ID.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl of
// inactivity. A non-positive ttl uses DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session with a random ID.
func (st *SessionStore) Create() *Session {
	sess := NewSession(uuid.New().String())

	st.mu.Lock()
	st.sessions[sess.ID()] = sess
	st.mu.Unlock()

	return sess
}

// Get returns the session for id and marks it as used.
// Returns ErrSessionNotFound if id is unknown or has expired.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok || st.expired(sess) {
		return nil, ErrSessionNotFound
	}
	sess.Touch()
	return sess, nil
}

// Delete removes a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of stored sessions, expired or not.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *SessionStore) expired(sess *Session) bool {
	return st.now().Sub(sess.idleSince()) > st.ttl
}

// Sweep removes every expired session and returns how many were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if st.expired(sess) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// SweepConfig controls the idle session sweeper.
type SweepConfig struct {
	Interval time.Duration // How often to sweep (default: 5m)
}

// StartSweeper evicts expired sessions every cfg.Interval until ctx is
// cancelled. Run it in its own goroutine.
func (st *SessionStore) StartSweeper(ctx context.Context, cfg SweepConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	slog.Info("session sweeper started", "interval", interval, "ttl", st.ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			start := time.Now()
			removed := st.Sweep()
			slog.Debug("session sweep completed",
				"removed", removed,
				"remaining", st.Len(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	}
}
