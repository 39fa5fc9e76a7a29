package ambient

import "time"

// Clock reports the time elapsed since an arbitrary fixed epoch. The engine
// reads it once per frame.
type Clock interface {
	Now() time.Duration
}

// SystemClock reads the monotonic wall clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock whose epoch is the moment of the call.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the monotonic time since the clock was created.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// MockClock is a manually driven clock for tests and offline rendering.
type MockClock struct {
	now time.Duration
}

// NewMockClock creates a mock clock reading start.
func NewMockClock(start time.Duration) *MockClock {
	return &MockClock{now: start}
}

// Now returns the current mocked time.
func (c *MockClock) Now() time.Duration { return c.now }

// Set jumps the clock to t.
func (c *MockClock) Set(t time.Duration) { c.now = t }

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) { c.now += d }
