package render

import (
	"sync"
	"time"
)

// Debounce is a single-slot trailing-edge timer. Each Trigger cancels the
// pending callback and restarts the quiet interval, so a burst of triggers
// runs the callback once, with the function given last.
type Debounce struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

func NewDebounce(delay time.Duration) *Debounce {
	return &Debounce{delay: delay}
}

// Trigger schedules fn after the quiet interval, replacing any pending call.
func (d *Debounce) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		fn := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Cancel drops the pending call, if any.
func (d *Debounce) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

// Flush runs the pending call immediately instead of waiting out the quiet
// interval. Used by tests and shutdown paths that need determinism.
func (d *Debounce) Flush() {
	d.mu.Lock()
	fn := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}
