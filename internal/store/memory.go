package store

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/interviewer/internal/interview"
)

// MemorySessions is an in-process session store. Sessions are cloned on the
// way in and out so callers never share state with the map.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]*interview.Session
}

var _ SessionStore = (*MemorySessions)(nil)
var _ SessionPruner = (*MemorySessions)(nil)

// NewMemorySessions creates an empty in-memory store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]*interview.Session)}
}

func (m *MemorySessions) Create(_ context.Context, sess *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sess.ID]; ok {
		return ErrExists
	}
	m.sessions[sess.ID] = sess.Clone()
	return nil
}

func (m *MemorySessions) Get(_ context.Context, id string) (*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

func (m *MemorySessions) Put(_ context.Context, sess *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess.Clone()
	return nil
}

func (m *MemorySessions) PruneSessions(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, sess := range m.sessions {
		if sess.IsCompleted && sess.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (m *MemorySessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
