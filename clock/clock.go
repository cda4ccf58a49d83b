// Package clock abstracts the time source used by rate limiters and
// circuit breakers.
//
// All guardrail primitives read time through the Clock interface instead of
// calling time.Now directly, so tests can substitute a FakeClock and verify
// refill, leak, window and cooldown arithmetic without real sleeps.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Monotonicity: successive Now calls must not go backwards.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
}

// SystemClock reads the real system clock.
//
// time.Now on Go carries a monotonic reading, so durations computed from
// SystemClock instants are immune to wall-clock adjustments.
type SystemClock struct{}

// NewSystemClock creates a SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// FakeClock is a controllable Clock for tests.
//
// Time only moves when Advance or Set is called, making limiter and breaker
// timing tests deterministic.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock starting at the given instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake current instant.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the fake clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the fake clock to t. Setting time backwards is a test bug;
// Set panics to surface it early.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.now) {
		panic("clock: FakeClock.Set would move time backwards")
	}
	c.now = t
}

// Ensure both implementations satisfy Clock.
var (
	_ Clock = (*SystemClock)(nil)
	_ Clock = (*FakeClock)(nil)
)
