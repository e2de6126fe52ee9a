// Package debounce collapses bursts of rapid triggers into single callback
// invocations after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was prevented
	// from running.
	Stop() bool
}

// Clock schedules deferred callbacks. Injecting a Clock lets tests advance
// time manually instead of sleeping.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

type systemTimer struct {
	t *time.Timer
}

func (st systemTimer) Stop() bool { return st.t.Stop() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

// SystemClock returns a Clock backed by the runtime timers.
func SystemClock() Clock { return systemClock{} }

// Debouncer handles debouncing of rapid updates. Each Trigger supersedes the
// previous pending one, so at most one callback is scheduled at any time and
// it fires only once triggers pause for the configured delay.
type Debouncer struct {
	clock    Clock
	delay    time.Duration
	timer    Timer
	callback func()
	mutex    sync.Mutex
	pending  bool
}

// New creates a debouncer using the system clock.
func New(delay time.Duration, callback func()) *Debouncer {
	return NewWithClock(delay, SystemClock(), callback)
}

// NewWithClock creates a debouncer scheduling on the given clock.
func NewWithClock(delay time.Duration, clock Clock, callback func()) *Debouncer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Debouncer{
		clock:    clock,
		delay:    delay,
		callback: callback,
	}
}

// Trigger (re)starts the delay timer. Only the most recent trigger within the
// delay window survives.
func (d *Debouncer) Trigger() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = true

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mutex.Lock()
		defer d.mutex.Unlock()

		if d.pending {
			d.pending = false
			d.callback()
		}
	})
}

// Cancel cancels any pending debounced call.
func (d *Debouncer) Cancel() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// IsPending returns whether a call is pending.
func (d *Debouncer) IsPending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.pending
}

// SetDelay updates the debounce delay for subsequent triggers.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.delay = delay
}
