package window

import (
	"testing"
	"time"

	"github.com/user/windowlist/internal/components/debounce"
)

func TestTrackerDebouncesScroll(t *testing.T) {
	clock := debounce.NewManualClock()
	updates := 0
	tr := NewTracker(16*time.Millisecond, clock, func() { updates++ })

	// A burst faster than the debounce interval collapses into one update.
	for i := 0; i < 20; i++ {
		tr.Scroll()
	}
	if updates != 0 {
		t.Fatalf("expected no update before quiet period, got %d", updates)
	}
	if !tr.Pending() {
		t.Error("expected a pending update during the burst")
	}

	clock.Advance(16 * time.Millisecond)
	if updates != 1 {
		t.Errorf("expected one update after quiet period, got %d", updates)
	}
	if tr.Pending() {
		t.Error("expected no pending update after fire")
	}
}

func TestTrackerResizeIsImmediate(t *testing.T) {
	clock := debounce.NewManualClock()
	updates := 0
	tr := NewTracker(16*time.Millisecond, clock, func() { updates++ })

	tr.Resize()
	if updates != 1 {
		t.Errorf("expected resize to update immediately, got %d updates", updates)
	}
}

func TestTrackerCloseCancelsPending(t *testing.T) {
	clock := debounce.NewManualClock()
	updates := 0
	tr := NewTracker(16*time.Millisecond, clock, func() { updates++ })

	tr.Scroll()
	tr.Close()
	clock.Advance(time.Second)

	if updates != 0 {
		t.Errorf("expected pending update cancelled on close, got %d", updates)
	}

	// Notifications after close are no-ops.
	tr.Scroll()
	tr.Resize()
	clock.Advance(time.Second)
	if updates != 0 {
		t.Errorf("expected no updates after close, got %d", updates)
	}

	// Close is safe to call again.
	tr.Close()
}

func TestTrackerScrollAfterFire(t *testing.T) {
	clock := debounce.NewManualClock()
	updates := 0
	tr := NewTracker(16*time.Millisecond, clock, func() { updates++ })

	tr.Scroll()
	clock.Advance(16 * time.Millisecond)
	tr.Scroll()
	clock.Advance(16 * time.Millisecond)

	if updates != 2 {
		t.Errorf("expected separated scrolls to each update, got %d", updates)
	}
}
