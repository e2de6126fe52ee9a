package debounce

import (
	"sort"
	"sync"
	"time"
)

// ManualClock is a Clock whose time only moves when Advance is called. Tests
// use it to drive debounce expiry deterministically.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	id      int
	when    time.Time
	fn      func()
	stopped bool
}

func (mt *manualTimer) Stop() bool {
	mt.clock.mu.Lock()
	defer mt.clock.mu.Unlock()

	if mt.stopped {
		return false
	}
	mt.stopped = true
	delete(mt.clock.timers, mt.id)
	return true
}

// NewManualClock creates a manual clock starting at an arbitrary fixed time.
func NewManualClock() *ManualClock {
	return &ManualClock{
		now:    time.Unix(0, 0),
		timers: make(map[int]*manualTimer),
	}
}

// AfterFunc registers fn to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	mt := &manualTimer{
		clock: c,
		id:    c.nextID,
		when:  c.now.Add(d),
		fn:    fn,
	}
	c.timers[mt.id] = mt
	return mt
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward and fires every timer that comes due, in
// scheduling order. Callbacks run synchronously on the calling goroutine.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)

	var due []*manualTimer
	for _, mt := range c.timers {
		if !mt.when.After(c.now) {
			due = append(due, mt)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].when.Equal(due[j].when) {
			return due[i].id < due[j].id
		}
		return due[i].when.Before(due[j].when)
	})
	for _, mt := range due {
		mt.stopped = true
		delete(c.timers, mt.id)
	}
	c.mu.Unlock()

	for _, mt := range due {
		mt.fn()
	}
}

// PendingTimers returns the number of timers waiting to fire.
func (c *ManualClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
