package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/matsen/ringmap/internal/surface"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRateLimited is returned when a session sends events faster than its
	// limiter allows.
	ErrRateLimited = errors.New("too many events")
)

// session is one client's interaction state. mu serializes events, since a
// Surface is not safe for concurrent use.
type session struct {
	id      string
	limiter *rate.Limiter

	mu       sync.Mutex
	surface  *surface.Surface
	lastSeen time.Time
}

// sessionStore owns every live session.
type sessionStore struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore(limit rate.Limit, burst int) *sessionStore {
	return &sessionStore{
		limit:    limit,
		burst:    burst,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// create starts a session on sc.
func (st *sessionStore) create(sc *surface.Scene) *session {
	s := &session{
		id:       uuid.NewString(),
		limiter:  rate.NewLimiter(st.limit, st.burst),
		surface:  surface.New(sc),
		lastSeen: st.now(),
	}
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

// get returns the session and marks it as seen.
func (st *sessionStore) get(id string) (*session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.mu.Lock()
	s.lastSeen = st.now()
	s.mu.Unlock()
	return s, nil
}

func (st *sessionStore) delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// reset points every session at a rebuilt scene. Node keys do not survive a
// rebuild, so interaction state starts over.
func (st *sessionStore) reset(sc *surface.Scene) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, s := range st.sessions {
		s.mu.Lock()
		s.surface = surface.New(sc)
		s.mu.Unlock()
	}
}

// sweep drops sessions idle for longer than ttl and returns how many it
// removed.
func (st *sessionStore) sweep(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
