package session

import (
	"context"
	"sync"
	"time"

	"github.com/odin-labs/pjs/internal/clock"
	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/pjserr"
)

// Config tunes the concurrency cap and idle timeout a Session enforces,
// sourced from internal/config (spec.md §6).
type Config struct {
	MaxConcurrentStreams int
	SessionTimeout       time.Duration
	Stream               StreamConfig
}

// Session owns a set of concurrently live Streams opened on behalf of one
// authenticated client (spec.md §3, "client-bound"). It enforces the
// concurrency cap and idle-timeout expiry; Stream lifecycle is delegated
// to each Stream itself.
type Session struct {
	id       ids.SessionID
	clientID string
	cfg      Config
	clock    clock.Clock
	monitor  resourceSignaler

	mu           sync.Mutex
	state        SessionState
	streams      map[ids.StreamID]*Stream
	lastActivity time.Time
}

// New creates a Created-state Session for clientID.
func New(id ids.SessionID, clientID string, cfg Config, clk clock.Clock, monitor resourceSignaler) *Session {
	return &Session{
		id:           id,
		clientID:     clientID,
		cfg:          cfg,
		clock:        clk,
		monitor:      monitor,
		state:        SessionCreated,
		streams:      make(map[ids.StreamID]*Stream),
		lastActivity: clk.Now(),
	}
}

// ID reports the session's identifier.
func (s *Session) ID() ids.SessionID { return s.id }

// ClientID reports the authenticated principal the session was opened for.
func (s *Session) ClientID() string { return s.clientID }

// State reports the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Activate transitions Created->Active. A no-op if already Active.
func (s *Session) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionCreated {
		s.state = SessionActive
	}
}

// touch records activity, resetting the idle-expiry clock.
func (s *Session) touch() {
	s.lastActivity = s.clock.Now()
}

// CheckExpiry transitions an Active session to Expired if it has been idle
// longer than SessionTimeout, returning whether it did so.
func (s *Session) CheckExpiry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return false
	}
	if s.clock.Now().Sub(s.lastActivity) <= s.cfg.SessionTimeout {
		return false
	}
	s.state = SessionExpired
	return true
}

// Close transitions the session and every non-terminal stream it owns to a
// terminal state: the session becomes Closed (an already Expired session
// stays Expired), and each open stream is cancelled and marked Failed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		s.state = SessionClosed
	}
	for _, st := range s.streams {
		if !st.State().Terminal() {
			st.Cancel()
			st.MarkFailed()
		}
	}
}

// OpenStream creates a new Stream under this session, deriving the
// stream's own cancellation scope from parent. It rejects the request
// with pjserr.TooManyStreams if the concurrency cap is already reached,
// or pjserr.InvalidSessionState if the session is not Active.
func (s *Session) OpenStream(parent context.Context) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SessionActive {
		return nil, pjserr.New(pjserr.InvalidSessionState, "session %s is %s, not active", s.id, s.state)
	}
	if len(s.streams) >= s.cfg.MaxConcurrentStreams {
		return nil, pjserr.New(pjserr.TooManyStreams, "session %s already has %d concurrent streams", s.id, len(s.streams))
	}

	s.touch()
	id := ids.NewStreamID()
	st := NewStream(parent, id, s.id, s.cfg.Stream, s.clock, s.monitor)
	s.streams[id] = st
	return st, nil
}

// Stream looks up a stream owned by this session by id.
func (s *Session) Stream(id ids.StreamID) (*Stream, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.streams[id]
	return st, ok
}

// Streams returns a snapshot of every stream currently owned by the
// session, in no particular order.
func (s *Session) Streams() []*Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Stream, 0, len(s.streams))
	for _, st := range s.streams {
		out = append(out, st)
	}
	return out
}
