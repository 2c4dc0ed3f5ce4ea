package services

import "time"

// Clock supplies the current time. The lifecycle rules (booking date
// defaults, the auto-completion sweep, settlement timestamps) take it
// injected so tests run without wall-clock dependence.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
