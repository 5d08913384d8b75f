// Package resource implements a gopsutil-backed escalation source for
// flowcontrol.Signal, adapted from the teacher's DynamicCapacityManager:
// where that manager adjusted connection limits from measured CPU, this
// Monitor reduces to the minimum that fits the streaming core's
// suspension points — periodically sampling CPU and mapping it to Ok,
// SlowDown, or Pause against two configured thresholds.
package resource

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/odin-labs/pjs/internal/flowcontrol"
)

// Config tunes the Monitor's sampling and escalation thresholds.
type Config struct {
	SampleInterval   time.Duration
	SampleDuration   time.Duration
	SlowDownPercent  float64
	PausePercent     float64
}

// DefaultConfig samples every 15s with a 100ms non-blocking CPU read,
// slowing down above 80% and pausing above 95%.
func DefaultConfig() Config {
	return Config{
		SampleInterval:  15 * time.Second,
		SampleDuration:  100 * time.Millisecond,
		SlowDownPercent: 80,
		PausePercent:    95,
	}
}

// Monitor samples host CPU usage and exposes the corresponding
// flowcontrol.Signal atomically, without requiring callers to take a
// lock.
type Monitor struct {
	cfg     Config
	logger  zerolog.Logger
	signal  atomic.Int32
}

// NewMonitor builds a Monitor that has not sampled yet (reports Ok until
// Start's first tick).
func NewMonitor(cfg Config, logger zerolog.Logger) *Monitor {
	return &Monitor{cfg: cfg, logger: logger}
}

// Signal returns the most recently sampled signal.
func (m *Monitor) Signal() flowcontrol.Signal {
	return flowcontrol.Signal(m.signal.Load())
}

// Start runs the sampling loop until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sample()
		case <-ctx.Done():
			m.logger.Info().Msg("resource monitor stopped")
			return
		}
	}
}

func (m *Monitor) sample() {
	percents, err := cpu.Percent(m.cfg.SampleDuration, false)
	if err != nil || len(percents) == 0 {
		m.logger.Warn().Err(err).Msg("failed to sample cpu usage")
		return
	}

	percent := percents[0]
	signal := m.signalFor(percent)

	m.signal.Store(int32(signal))
	m.logger.Debug().Float64("cpu_percent", percent).Str("signal", signal.String()).Msg("resource monitor sampled")
}

// signalFor maps a CPU percentage to the signal sample stores.
func (m *Monitor) signalFor(percent float64) flowcontrol.Signal {
	switch {
	case percent >= m.cfg.PausePercent:
		return flowcontrol.Pause
	case percent >= m.cfg.SlowDownPercent:
		return flowcontrol.SlowDown
	default:
		return flowcontrol.Ok
	}
}
