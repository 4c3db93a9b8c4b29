package display

import (
	"sync"
	"testing"
	"time"

	"cockpitview/config"
)

// manualScheduler queues timers until Flush is called.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.pending = append(s.pending, t)
	return t
}

// Flush fires every queued, unstopped timer and returns how many ran.
func (s *manualScheduler) Flush() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	n := 0
	for _, t := range pending {
		if !t.stopped {
			t.f()
			n++
		}
	}
	return n
}

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestManager(t *testing.T, store config.Store) (*Manager, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	opts := DefaultOptions()
	opts.Store = store
	opts.Scheduler = sched
	opts.Surface = NewSurface()
	opts.Now = func() time.Time { return testNow }
	return NewManager(opts), sched
}

// recorder counts events delivered by a manager.
type recorder struct {
	mu          sync.Mutex
	scales      []ScaleChanged
	resolutions []ResolutionChanged
}

func record(m *Manager) *recorder {
	r := &recorder{}
	m.OnScaleChanged(func(ev ScaleChanged) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.scales = append(r.scales, ev)
	})
	m.OnResolutionChanged(func(ev ResolutionChanged) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.resolutions = append(r.resolutions, ev)
	})
	return r
}

func (r *recorder) scaleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scales)
}

func (r *recorder) resolutionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.resolutions)
}

func (r *recorder) lastScale() ScaleChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scales[len(r.scales)-1]
}
