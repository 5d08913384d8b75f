package resource

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/odin-labs/pjs/internal/flowcontrol"
)

func TestSignalDefaultsToOkBeforeFirstSample(t *testing.T) {
	m := NewMonitor(DefaultConfig(), zerolog.Nop())
	assert.Equal(t, flowcontrol.Ok, m.Signal())
}

func TestSampleEscalatesSignalByThreshold(t *testing.T) {
	m := NewMonitor(DefaultConfig(), zerolog.Nop())

	m.signal.Store(int32(flowcontrol.Ok))
	m.cfg.SlowDownPercent = 50
	m.cfg.PausePercent = 90

	escalate := m.signalFor

	assert.Equal(t, flowcontrol.Ok, escalate(10))
	assert.Equal(t, flowcontrol.SlowDown, escalate(60))
	assert.Equal(t, flowcontrol.Pause, escalate(95))
}
