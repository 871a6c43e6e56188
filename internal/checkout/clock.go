package checkout

import "time"

// Timer is a cancellable one-shot timer handle.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall time and timer scheduling so the simulated
// delays run instantly under a fake clock in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

// NewClock returns the wall clock.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
