package display

import (
	"sync"
	"time"
)

// Timer is a scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc is the production scheduler;
// tests substitute a manual one.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// throttle collapses bursts of triggers into one trailing call. The first
// trigger of a burst arms a timer; triggers while it is armed are absorbed.
// The call reads whatever input is current when it runs, so the last trigger
// of a burst always wins.
type throttle struct {
	mu    sync.Mutex
	delay time.Duration
	sched Scheduler
	timer Timer
	fn    func()
}

func newThrottle(delay time.Duration, sched Scheduler, fn func()) *throttle {
	if sched == nil {
		sched = realScheduler{}
	}
	return &throttle{delay: delay, sched: sched, fn: fn}
}

// Trigger schedules the trailing call unless one is already pending. A
// non-positive delay calls through immediately.
func (t *throttle) Trigger() {
	if t.delay <= 0 {
		t.fn()
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = t.sched.AfterFunc(t.delay, t.fire)
}

func (t *throttle) fire() {
	t.mu.Lock()
	if t.timer == nil {
		// Cancelled after the timer already started.
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	t.fn()
}

// Pending reports whether a trailing call is scheduled.
func (t *throttle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Cancel drops a pending call.
func (t *throttle) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
