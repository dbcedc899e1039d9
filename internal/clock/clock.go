// Package clock supplies the current time to services so that "today" and
// record timestamps can be pinned in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant until it is moved.
type FixedClock struct {
	FixedNow time.Time
}

func (f *FixedClock) Now() time.Time {
	return f.FixedNow
}

func (f *FixedClock) SetNow(now time.Time) {
	f.FixedNow = now
}

// Advance moves the clock forward by d.
func (f *FixedClock) Advance(d time.Duration) {
	f.FixedNow = f.FixedNow.Add(d)
}
