package performance

import (
	"sync"
	"time"
)

// Debouncer runs a callback once a burst of triggers has been quiet for delay
type Debouncer struct {
	delay    time.Duration
	timer    *time.Timer
	callback func()
	mutex    sync.Mutex
	pending  bool
	// generation invalidates timers that were stopped too late
	generation uint64
}

// NewDebouncer creates a new debouncer with the specified delay
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Trigger restarts the quiet period
func (d *Debouncer) Trigger() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = true
	d.generation++
	generation := d.generation

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mutex.Lock()
		if !d.pending || d.generation != generation {
			d.mutex.Unlock()
			return
		}
		d.pending = false
		callback := d.callback
		d.mutex.Unlock()

		if callback != nil {
			callback()
		}
	})
}

// Cancel cancels any pending debounced call
func (d *Debouncer) Cancel() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = false
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// IsPending returns whether a call is pending
func (d *Debouncer) IsPending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.pending
}

// SetDelay updates the debounce delay for subsequent triggers
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.delay = delay
}
