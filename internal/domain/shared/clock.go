package shared

import "time"

// Clock abstracts the ambient time source so timestamp-stamping operations
// stay deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

// Now returns the current system time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}
