package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manual time source. Service tests pin it to a known instant and
// step it forward to cross session expiries and planning windows on demand.
type Clock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewClock pins a clock to start, or to ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start}
}

// Now reports the pinned instant.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// NowFunc adapts the clock to the now func() time.Time seam the services
// accept.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set pins the clock to an absolute instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance steps the clock forward by d and reports the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Current reads the pinned instant without implying any progression.
func (c *Clock) Current() time.Time {
	return c.Now()
}
