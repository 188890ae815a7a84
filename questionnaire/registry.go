package questionnaire

import (
	"sync"
	"time"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry keeps one session per conversation. Sessions never share state.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*entry
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*entry), now: time.Now}
}

// Get returns the session for key, starting one if needed. The second result
// is true when a new session was created.
func (r *Registry) Get(key int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[key]; ok {
		e.lastSeen = r.now()
		return e.session, false
	}
	s := NewSession()
	r.sessions[key] = &entry{session: s, lastSeen: r.now()}
	return s, true
}

// Restart replaces the session for key with a fresh one.
func (r *Registry) Restart(key int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := NewSession()
	r.sessions[key] = &entry{session: s, lastSeen: r.now()}
	return s
}

// Prune forgets sessions not touched for longer than maxIdle and returns how
// many were removed. Sessions with a submission outstanding are kept.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for key, e := range r.sessions {
		if e.lastSeen.After(cutoff) || e.session.Submitting() {
			continue
		}
		delete(r.sessions, key)
		removed++
	}
	return removed
}

// Len is the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
