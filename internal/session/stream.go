package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/odin-labs/pjs/internal/clock"
	"github.com/odin-labs/pjs/internal/flowcontrol"
	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/pjserr"
	"github.com/odin-labs/pjs/internal/streamer"
)

const monitorPausePollInterval = 200 * time.Millisecond

// resourceSignaler is satisfied by *resource.Monitor; kept as a narrow
// interface here so session does not need to import resource directly.
type resourceSignaler interface {
	Signal() flowcontrol.Signal
}

// StreamConfig tunes a single Stream, combining the generation config
// (spec.md §4.3) with the flow-control and timeout knobs spec.md §6
// exposes per stream.
type StreamConfig struct {
	Generation streamer.Config
	MaxCredits uint64
	AckTimeout time.Duration
	// SlowDownRate bounds how often a SlowDown-suspended stream may emit;
	// Burst allows short bursts up to that many emits.
	SlowDownRate  rate.Limit
	SlowDownBurst int
}

// Stream is the owning aggregate of one in-flight document delivery. It
// implements streamer.StreamHandle directly, so the streamer package
// never needs to know about Session.
type Stream struct {
	id        ids.StreamID
	sessionID ids.SessionID
	cfg       StreamConfig
	clock     clock.Clock

	mu           sync.Mutex
	state        StreamState
	nextSeq      uint64
	emittedPaths map[string]struct{}
	lastAckAt    time.Time

	credits      *flowcontrol.Credits
	backpressure *flowcontrol.BackpressureController
	slowLimiter  *rate.Limiter
	monitor      resourceSignaler

	ctx    context.Context
	cancel context.CancelFunc
	// cancelRequested distinguishes an explicit Cancel() from any other
	// reason ctx might end (e.g. the session's own context exiting).
	cancelRequested bool
}

// NewStream creates a Created-state Stream owned by sessionID, bound to
// parent's lifetime until Cancel or completion.
func NewStream(parent context.Context, id ids.StreamID, sessionID ids.SessionID, cfg StreamConfig, clk clock.Clock, monitor resourceSignaler) *Stream {
	ctx, cancel := context.WithCancel(parent)
	return &Stream{
		id:           id,
		sessionID:    sessionID,
		cfg:          cfg,
		clock:        clk,
		state:        StreamCreated,
		emittedPaths: make(map[string]struct{}),
		lastAckAt:    clk.Now(),
		credits:      flowcontrol.NewCredits(cfg.MaxCredits),
		backpressure: flowcontrol.NewBackpressureController(),
		slowLimiter:  rate.NewLimiter(cfg.SlowDownRate, cfg.SlowDownBurst),
		monitor:      monitor,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// ID implements streamer.StreamHandle.
func (s *Stream) ID() ids.StreamID { return s.id }

// SessionID reports the owning session.
func (s *Stream) SessionID() ids.SessionID { return s.sessionID }

// State reports the current lifecycle state.
func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Context is the stream's cancellation scope; Generate should run under it.
func (s *Stream) Context() context.Context { return s.ctx }

// activate transitions Created->Active on first emission.
func (s *Stream) activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StreamCreated {
		s.state = StreamActive
	}
}

// finish transitions the stream to a terminal state. Repeated calls
// after the first are no-ops: terminal states are sinks.
func (s *Stream) finish(state StreamState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = state
}

// NextSequence implements streamer.StreamHandle.
func (s *Stream) NextSequence() uint64 {
	s.activate()
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.nextSeq
	s.nextSeq++
	return seq
}

// RecordEmittedPath implements streamer.StreamHandle.
func (s *Stream) RecordEmittedPath(path jsonpath.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emittedPaths[path.String()] = struct{}{}
}

// Cancelled implements streamer.StreamHandle.
func (s *Stream) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelRequested
}

// Cancel requests cooperative cancellation. Idempotent.
func (s *Stream) Cancel() {
	s.mu.Lock()
	already := s.cancelRequested
	s.cancelRequested = true
	s.mu.Unlock()
	if !already {
		s.cancel()
	}
}

// Throttle implements streamer.StreamHandle: it suspends, in order, on
// an explicit Pause signal, then on the resource monitor's Pause signal
// (polled at its own cadence since the monitor itself only samples
// periodically), then on a SlowDown soft delay, then on flow-control
// credits. Every wait also ends when the stream itself is cancelled,
// whatever ctx the caller passed.
func (s *Stream) Throttle(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	unregister := context.AfterFunc(s.ctx, stop)
	defer unregister()

	for {
		if err := s.backpressure.WaitUntilNotPaused(ctx); err != nil {
			return err
		}
		if s.Cancelled() {
			return pjserr.New(pjserr.Cancelled, "stream cancelled")
		}
		if s.monitor == nil || !s.monitor.Signal().ShouldPause() {
			break
		}
		select {
		case <-ctx.Done():
			return pjserr.Wrap(pjserr.Cancelled, ctx.Err(), "wait out resource-monitor pause")
		case <-time.After(monitorPausePollInterval):
		}
	}

	effective := s.backpressure.Get()
	if s.monitor != nil {
		effective = flowcontrol.Max(effective, s.monitor.Signal())
	}
	if effective.ShouldThrottle() {
		if err := s.slowLimiter.Wait(ctx); err != nil {
			return pjserr.Wrap(pjserr.Cancelled, err, "wait on slow-down limiter")
		}
	}

	return s.credits.Wait(ctx)
}

// SetBackpressure updates the explicit client signal (last-writer-wins).
func (s *Stream) SetBackpressure(sig flowcontrol.Signal) {
	s.backpressure.Set(sig)
}

// Ack advances credits by one (spec.md §6 FrameAck: "1 credit per ack")
// and records the ack time for ack-timeout detection.
func (s *Stream) Ack() {
	s.mu.Lock()
	s.lastAckAt = s.clock.Now()
	s.mu.Unlock()
	s.credits.Add(1)
}

// CheckAckTimeout reports whether more than AckTimeout has elapsed since
// the last ack on an Active stream, transitioning it to Failed if so.
func (s *Stream) CheckAckTimeout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StreamActive {
		return false
	}
	if s.clock.Now().Sub(s.lastAckAt) <= s.cfg.AckTimeout {
		return false
	}
	s.state = StreamFailed
	return true
}

// MarkCompleted transitions the stream to Completed. Dispatch calls it as
// soon as the Complete frame has been sent; it does not wait for that
// frame to be acknowledged.
func (s *Stream) MarkCompleted() { s.finish(StreamCompleted) }

// MarkFailed transitions the stream to Failed on a codec/assigner error.
func (s *Stream) MarkFailed() { s.finish(StreamFailed) }

// MarkCancelled transitions the stream to Cancelled after its Error
// ("cancelled") frame has been emitted.
func (s *Stream) MarkCancelled() { s.finish(StreamCancelled) }

// EmittedPaths returns the set of non-skeleton paths emitted so far, as
// strings.
func (s *Stream) EmittedPaths() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.emittedPaths))
	for k := range s.emittedPaths {
		out[k] = struct{}{}
	}
	return out
}
