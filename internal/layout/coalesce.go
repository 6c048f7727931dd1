package layout

import (
	"sync"
	"time"

	"github.com/kobzarvs/qgrid/internal/logger"
	"github.com/kobzarvs/qgrid/internal/sched"
)

// Engine keeps resolved widths current. Column changes recompute at once;
// width changes are coalesced so a burst of resize signals produces a
// single recompute after the burst goes quiet.
type Engine struct {
	sched sched.Scheduler
	delay time.Duration
	post  func(func())

	mu      sync.Mutex
	sizes   []Size
	width   float64
	pending float64
	timer   sched.Timer
	widths  []float64
	passes  int

	onChange func([]float64)
}

// NewEngine builds a layout engine. post hands the trailing-edge recompute
// back to the host's event loop; nil runs it on the timer's goroutine.
func NewEngine(s sched.Scheduler, delay time.Duration, post func(func())) *Engine {
	if s == nil {
		s = sched.Wall{}
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Engine{sched: s, delay: delay, post: post}
}

// OnChange registers a callback invoked after every layout pass.
func (e *Engine) OnChange(f func([]float64)) {
	e.mu.Lock()
	e.onChange = f
	e.mu.Unlock()
}

func (e *Engine) SetColumns(sizes []Size) {
	e.mu.Lock()
	e.sizes = append([]Size(nil), sizes...)
	e.mu.Unlock()
	e.recompute()
}

// SetWidth records a new available width and recomputes immediately.
func (e *Engine) SetWidth(w float64) {
	e.mu.Lock()
	e.width = w
	e.pending = w
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	e.recompute()
}

// Resize schedules a recompute for width w, replacing any recompute
// already waiting.
func (e *Engine) Resize(w float64) {
	if e.delay <= 0 {
		e.SetWidth(w)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = w
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = e.sched.AfterFunc(e.delay, func() {
		e.post(e.flush)
	})
}

func (e *Engine) flush() {
	e.mu.Lock()
	e.timer = nil
	e.width = e.pending
	e.mu.Unlock()
	e.recompute()
}

func (e *Engine) Widths() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]float64(nil), e.widths...)
}

// Passes reports how many layout passes have run.
func (e *Engine) Passes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.passes
}

func (e *Engine) recompute() {
	e.mu.Lock()
	widths := Resolve(e.sizes, e.width)
	e.widths = widths
	e.passes++
	cb := e.onChange
	width := e.width
	e.mu.Unlock()
	logger.Debug("layout pass", "width", width, "columns", len(widths))
	if cb != nil {
		cb(append([]float64(nil), widths...))
	}
}
