// Package sched abstracts delayed callbacks so timer-driven behaviour
// (error display expiry, resize coalescing) can be driven by a fake clock.
package sched

import "time"

type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// timer was still pending.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Wall schedules on real time. Callbacks run on their own goroutine, so
// hosts that are not thread safe should hand them back to their event loop.
type Wall struct{}

func (Wall) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
