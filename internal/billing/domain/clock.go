package domain

import "time"

// Clock abstracts the current time so billing math stays deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// FixedClock returns a fixed instant. For tests.
type FixedClock struct {
	FixedTime time.Time
}

func (f FixedClock) Now() time.Time { return f.FixedTime }
