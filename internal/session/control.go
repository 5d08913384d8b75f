package session

import (
	"github.com/odin-labs/pjs/internal/flowcontrol"
	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/pjserr"
)

// FrameAck is the client's acknowledgement of a received frame (spec.md
// §6): it replenishes one flow-control credit on the named stream and
// resets that stream's ack-timeout clock.
type FrameAck struct {
	StreamID         ids.StreamID
	Sequence         uint64
	ProcessingTimeMs int64
}

// Backpressure is the client's explicit signal for a stream (spec.md §6).
type Backpressure struct {
	StreamID ids.StreamID
	Signal   flowcontrol.Signal
}

// Cancel requests cooperative cancellation of a stream (spec.md §6).
type Cancel struct {
	StreamID ids.StreamID
}

// HandleControl routes an incoming control message to the stream it
// names, returning pjserr.InvalidStreamState if no such stream exists on
// this session.
func (s *Session) HandleControl(msg any) error {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()

	switch m := msg.(type) {
	case FrameAck:
		st, ok := s.Stream(m.StreamID)
		if !ok {
			return pjserr.New(pjserr.InvalidStreamState, "ack for unknown stream %s", m.StreamID)
		}
		st.Ack()
		return nil

	case Backpressure:
		st, ok := s.Stream(m.StreamID)
		if !ok {
			return pjserr.New(pjserr.InvalidStreamState, "backpressure for unknown stream %s", m.StreamID)
		}
		st.SetBackpressure(m.Signal)
		return nil

	case Cancel:
		st, ok := s.Stream(m.StreamID)
		if !ok {
			return pjserr.New(pjserr.InvalidStreamState, "cancel for unknown stream %s", m.StreamID)
		}
		st.Cancel()
		return nil

	default:
		return pjserr.New(pjserr.InvalidFrame, "unrecognized control message %T", msg)
	}
}
