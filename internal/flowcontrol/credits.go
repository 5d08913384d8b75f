package flowcontrol

import (
	"context"
	"sync"

	"github.com/odin-labs/pjs/internal/pjserr"
)

// Credits is FlowControlCredits: a saturating, per-stream counter the
// streamer consumes one unit from before every Patch emission. When
// exhausted, Wait suspends the caller until a FrameAck replenishes it or
// ctx is cancelled, without busy-waiting — callers park on a channel that
// Add closes and replaces, mirroring the broadcast-wakeup shape the
// teacher's goroutine limiter semaphore uses for symmetric acquire/release
// but built for blocking waits instead of a non-blocking try.
type Credits struct {
	mu        sync.Mutex
	available uint64
	max       uint64
	waiters   []chan struct{}
}

// NewCredits creates a Credits counter starting and capping at max.
func NewCredits(max uint64) *Credits {
	return &Credits{available: max, max: max}
}

// TryConsume attempts to consume one credit without blocking. Reports
// whether a credit was available.
func (c *Credits) TryConsume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.available == 0 {
		return false
	}
	c.available--
	return true
}

// Wait blocks until a credit is available (consuming one) or ctx is
// cancelled.
func (c *Credits) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.available > 0 {
			c.available--
			c.mu.Unlock()
			return nil
		}
		ch := make(chan struct{})
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case <-ch:
			// woken by Add; loop and retry the acquire
		case <-ctx.Done():
			return pjserr.Wrap(pjserr.Cancelled, ctx.Err(), "wait for flow-control credit")
		}
	}
}

// Add grants n additional credits (saturating at max), typically called
// when a FrameAck arrives, and wakes any waiters.
func (c *Credits) Add(n uint64) {
	c.mu.Lock()
	c.available += n
	if c.available > c.max {
		c.available = c.max
	}
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// Available reports the current credit count.
func (c *Credits) Available() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

// Max reports the configured ceiling.
func (c *Credits) Max() uint64 {
	return c.max
}

// Reset restores credits to max, waking any waiters.
func (c *Credits) Reset() {
	c.mu.Lock()
	c.available = c.max
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}
