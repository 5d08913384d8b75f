// Package sessionstore is the in-memory Session collaborator spec.md §6
// names (insert/get/remove), matching the register/unregister-map shape
// of the teacher's websocket.Hub but keyed by SessionID instead of holding
// live connections.
package sessionstore

import (
	"sync"

	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/session"
)

// Store is a mutex-guarded map of live sessions. It holds no opinion about
// session lifecycle beyond presence; expiry and closing are the caller's
// responsibility (see Sweep).
type Store struct {
	mu       sync.RWMutex
	sessions map[ids.SessionID]*session.Session
}

// New returns an empty Store.
func New() *Store {
	return &Store{sessions: make(map[ids.SessionID]*session.Session)}
}

// Insert adds s to the store, keyed by its own ID.
func (st *Store) Insert(s *session.Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID()] = s
}

// Get looks up a session by ID.
func (st *Store) Get(id ids.SessionID) (*session.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Remove deletes a session from the store, if present.
func (st *Store) Remove(id ids.SessionID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of sessions currently held.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// SweepExpired closes and removes every session whose CheckExpiry reports
// true, returning how many were swept. Intended to be called periodically
// by whatever owns the store's lifetime.
func (st *Store) SweepExpired() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	swept := 0
	for id, s := range st.sessions {
		if s.CheckExpiry() {
			s.Close()
			delete(st.sessions, id)
			swept++
		}
	}
	return swept
}
