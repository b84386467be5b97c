package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnected
	StateIdentified
)

// Session is one connected socket. It starts Connected with an opaque ID
// and becomes Identified once the client announces its handle.
type Session struct {
	ID          uuid.UUID
	Handle      string
	State       SessionState
	ConnectedAt time.Time
}

// SessionRegistry owns the session↔handle mapping and its lifecycle. It is
// injected into the hub rather than held as ambient state.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[uuid.UUID]*Session)}
}

// Open registers a fresh session in the Connected state.
func (r *SessionRegistry) Open() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &Session{
		ID:          uuid.New(),
		State:       StateConnected,
		ConnectedAt: time.Now(),
	}
	r.sessions[s.ID] = s
	return s
}

// Identify binds a handle to the session and moves it to Identified.
func (r *SessionRegistry) Identify(id uuid.UUID, handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.Handle = handle
	s.State = StateIdentified
	return true
}

// Close discards the session's mapping. A closed session never receives
// buffered replays; clients re-fetch missed state over HTTP.
func (r *SessionRegistry) Close(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.State = StateDisconnected
		delete(r.sessions, id)
	}
}

// HandleOf returns the handle bound to the session, if it is identified.
func (r *SessionRegistry) HandleOf(id uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok || s.State != StateIdentified {
		return "", false
	}
	return s.Handle, true
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
