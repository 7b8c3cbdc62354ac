package clock

import "time"

// Clock abstracts time so day boundaries can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall-clock time; records are keyed by local calendar day.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant until moved.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}
