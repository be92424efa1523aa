package payment

import "time"

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies the current time to term computation. Injecting it keeps
// the scheduling math deterministic and testable; nothing in the engine
// reads the wall clock directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock. Use in production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant. Use in tests and scenarios.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// NewFixedClock pins the clock to the given instant.
func NewFixedClock(at time.Time) FixedClock { return FixedClock{At: at} }
