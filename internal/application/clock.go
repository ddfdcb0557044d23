package application

import "time"

// Clock is the pipeline's view of time. It waits on After, so a fake clock
// can release the analysis delay in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock implementasi default, pakai package time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
