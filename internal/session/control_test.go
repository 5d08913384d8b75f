package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odin-labs/pjs/internal/clock"
	"github.com/odin-labs/pjs/internal/flowcontrol"
	"github.com/odin-labs/pjs/internal/ids"
)

func openTestStream(t *testing.T) (*Session, *Stream) {
	t.Helper()
	clk := clock.NewFake(time.Unix(0, 0))
	s := New(ids.NewSessionID(), "alice", testConfig(), clk, nil)
	s.Activate()
	st, err := s.OpenStream(context.Background())
	require.NoError(t, err)
	return s, st
}

func TestHandleControlFrameAckAddsCredit(t *testing.T) {
	s, st := openTestStream(t)
	require.True(t, st.credits.TryConsume())
	drained := st.credits.Available()

	err := s.HandleControl(FrameAck{StreamID: st.ID(), Sequence: 1})
	require.NoError(t, err)

	assert.Equal(t, drained+1, st.credits.Available())
}

func TestHandleControlBackpressureSetsSignal(t *testing.T) {
	s, st := openTestStream(t)

	err := s.HandleControl(Backpressure{StreamID: st.ID(), Signal: flowcontrol.Pause})
	require.NoError(t, err)
	assert.Equal(t, flowcontrol.Pause, st.backpressure.Get())
}

func TestHandleControlCancelRequestsCancellation(t *testing.T) {
	s, st := openTestStream(t)

	err := s.HandleControl(Cancel{StreamID: st.ID()})
	require.NoError(t, err)
	assert.True(t, st.Cancelled())
}

func TestHandleControlRejectsUnknownStream(t *testing.T) {
	s, _ := openTestStream(t)

	err := s.HandleControl(FrameAck{StreamID: ids.NewStreamID()})
	assert.Error(t, err)
}
