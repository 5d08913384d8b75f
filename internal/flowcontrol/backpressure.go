package flowcontrol

import (
	"context"
	"sync"

	"github.com/odin-labs/pjs/internal/pjserr"
)

// BackpressureController holds the last-writer-wins Signal for a stream
// (from an explicit client Backpressure control message, optionally
// combined with a resource monitor's signal) and lets the streamer
// suspend on it without busy-waiting.
type BackpressureController struct {
	mu      sync.Mutex
	signal  Signal
	waiters []chan struct{}
}

// NewBackpressureController starts in the Ok state.
func NewBackpressureController() *BackpressureController {
	return &BackpressureController{}
}

// Set updates the current signal (last-writer-wins) and wakes any
// goroutine parked in WaitUntilNotPaused if the new signal no longer
// requires pausing.
func (b *BackpressureController) Set(s Signal) {
	b.mu.Lock()
	b.signal = s
	var waiters []chan struct{}
	if !s.ShouldPause() {
		waiters = b.waiters
		b.waiters = nil
	}
	b.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// Get returns the current signal.
func (b *BackpressureController) Get() Signal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signal
}

// WaitUntilNotPaused blocks while the current signal is Pause, honoring
// cancellation, then returns. It does not itself apply SlowDown delay or
// consume credits; the streamer's Throttle hook sequences those
// separately.
func (b *BackpressureController) WaitUntilNotPaused(ctx context.Context) error {
	for {
		b.mu.Lock()
		if !b.signal.ShouldPause() {
			b.mu.Unlock()
			return nil
		}
		ch := make(chan struct{})
		b.waiters = append(b.waiters, ch)
		b.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return pjserr.Wrap(pjserr.Cancelled, ctx.Err(), "wait out pause signal")
		}
	}
}
