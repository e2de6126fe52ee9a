package window

import (
	"sync"
	"time"

	"github.com/user/windowlist/internal/components/debounce"
)

// Tracker converts high-frequency scroll notifications into bounded-rate
// update triggers and passes resize notifications through immediately.
type Tracker struct {
	mu        sync.Mutex
	closed    bool
	debouncer *debounce.Debouncer
	update    func()
}

// NewTracker creates a tracker firing update on the given clock. Scroll
// notifications are trailing-edge debounced by delay; resizes are not
// debounced since they are rare and stale geometry would show wrong ranges.
func NewTracker(delay time.Duration, clock debounce.Clock, update func()) *Tracker {
	t := &Tracker{update: update}
	t.debouncer = debounce.NewWithClock(delay, clock, t.fire)
	return t
}

// Scroll records a raw scroll notification. Repeated calls within the delay
// window supersede each other; only the last one results in an update.
func (t *Tracker) Scroll() {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	t.debouncer.Trigger()
}

// Resize triggers an immediate update.
func (t *Tracker) Resize() {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	t.update()
}

// Pending reports whether a debounced update is waiting to fire.
func (t *Tracker) Pending() bool {
	return t.debouncer.IsPending()
}

// Close unsubscribes the tracker and cancels any pending debounced update.
// Further notifications become no-ops. Close is idempotent.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	t.debouncer.Cancel()
}

func (t *Tracker) fire() {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	t.update()
}
