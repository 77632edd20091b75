package datasync

import (
	"sync"
	"time"
)

// Debouncer delays an action until its trigger has been quiet for the
// configured interval, so a burst of keystrokes issues a single upstream
// request for the final term.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	pending  func()

	// OnSuppress is invoked when a trigger supersedes a pending one.
	OnSuppress func()
}

// NewDebouncer builds a debouncer. Intervals under 300ms are raised to it;
// shorter windows cause request storms on fast typists.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval < 300*time.Millisecond {
		interval = 300 * time.Millisecond
	}
	return &Debouncer{interval: interval}
}

// NewDebouncerRaw keeps the interval as given. Tests use short windows.
func NewDebouncerRaw(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn, cancelling any not-yet-fired predecessor.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		if d.timer.Stop() && d.OnSuppress != nil {
			defer d.OnSuppress()
		}
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		run := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()
		if run != nil {
			run()
		}
	})
}

// Flush runs the pending action immediately, if any. Explicit refresh
// actions use it so the user never waits out the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	run := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	if run != nil {
		run()
	}
}

// Stop cancels any pending action (screen unmount).
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
