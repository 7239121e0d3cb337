package testfixtures

import (
	"sync"
	"time"
)

// Clock is a mutable time source for tests. The zero value is not usable;
// construct instances with NewClock.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock constructs a clock starting at the provided instant. When start is
// the zero time, ReferenceTime is used instead.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now returns the current clock reading.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now as a function suitable for dependency injection. A nil
// receiver falls back to time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set overrides the current clock reading.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new reading.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// Current is an alias for Now, kept for readability at call sites that assert
// against the clock rather than read it.
func (c *Clock) Current() time.Time {
	return c.Now()
}
