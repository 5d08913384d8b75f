package sessionstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odin-labs/pjs/internal/clock"
	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/session"
	"github.com/odin-labs/pjs/internal/streamer"
)

func newTestSession(clk clock.Clock) *session.Session {
	cfg := session.Config{
		MaxConcurrentStreams: 2,
		SessionTimeout:       time.Minute,
		Stream: session.StreamConfig{
			Generation:    streamer.DefaultConfig(),
			MaxCredits:    10,
			AckTimeout:    time.Minute,
			SlowDownRate:  1,
			SlowDownBurst: 1,
		},
	}
	return session.New(ids.NewSessionID(), "alice", cfg, clk, nil)
}

func TestInsertGetRemove(t *testing.T) {
	store := New()
	clk := clock.NewFake(time.Unix(0, 0))
	s := newTestSession(clk)

	store.Insert(s)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get(s.ID())
	require.True(t, ok)
	assert.Equal(t, s.ID(), got.ID())

	store.Remove(s.ID())
	_, ok = store.Get(s.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestSweepExpiredRemovesIdleSessions(t *testing.T) {
	store := New()
	clk := clock.NewFake(time.Unix(0, 0))
	s := newTestSession(clk)
	s.Activate()
	store.Insert(s)

	assert.Equal(t, 0, store.SweepExpired())

	clk.Advance(2 * time.Minute)
	assert.Equal(t, 1, store.SweepExpired())
	assert.Equal(t, 0, store.Len())
}
