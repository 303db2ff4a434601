// Package clock lets use cases read the time through an interface, so tests
// can freeze it.
package clock

import "time"

type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the system clock and reports UTC, which is what the
// database stores.
type TimeClocker struct{}

func New() *TimeClocker {
	return &TimeClocker{}
}

func (*TimeClocker) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the instant it was built with.
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	return f.t
}
