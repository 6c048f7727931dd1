package edit

import (
	"sync"
	"time"

	"github.com/kobzarvs/qgrid/internal/sched"
)

// ErrorDisplay holds the validation failure currently shown to the user
// and clears it after a delay.
type ErrorDisplay struct {
	sched sched.Scheduler
	delay time.Duration
	post  func(func())

	mu       sync.Mutex
	active   *ValidationResult
	timer    sched.Timer
	gen      int
	onChange func()
}

// NewErrorDisplay builds a display whose entries expire after delay. post
// hands the expiry back to the host's event loop; nil runs it on the
// timer's goroutine.
func NewErrorDisplay(s sched.Scheduler, delay time.Duration, post func(func())) *ErrorDisplay {
	if s == nil {
		s = sched.Wall{}
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	return &ErrorDisplay{sched: s, delay: delay, post: post}
}

func (d *ErrorDisplay) OnChange(f func()) {
	d.mu.Lock()
	d.onChange = f
	d.mu.Unlock()
}

// Show makes r the active result and restarts the expiry timer.
func (d *ErrorDisplay) Show(r ValidationResult) {
	d.mu.Lock()
	d.stopLocked()
	d.active = &r
	gen := d.gen
	if d.delay > 0 {
		d.timer = d.sched.AfterFunc(d.delay, func() {
			d.post(func() { d.expire(gen) })
		})
	}
	cb := d.onChange
	d.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Clear drops the active result and cancels a pending expiry.
func (d *ErrorDisplay) Clear() {
	d.mu.Lock()
	had := d.active != nil
	d.stopLocked()
	d.active = nil
	cb := d.onChange
	d.mu.Unlock()
	if had && cb != nil {
		cb()
	}
}

func (d *ErrorDisplay) Active() (ValidationResult, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return ValidationResult{}, false
	}
	return *d.active, true
}

func (d *ErrorDisplay) expire(gen int) {
	d.mu.Lock()
	if gen != d.gen || d.active == nil {
		d.mu.Unlock()
		return
	}
	d.active = nil
	d.timer = nil
	cb := d.onChange
	d.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (d *ErrorDisplay) stopLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
