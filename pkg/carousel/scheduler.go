package carousel

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs fn once after d. fn may run on any goroutine, including
// synchronously inside Schedule. The returned cancel function stops the
// call if it has not happened yet; calling it more than once is harmless.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func()) func()

// Schedule calls f(d, fn).
func (f SchedulerFunc) Schedule(d time.Duration, fn func()) func() {
	return f(d, fn)
}

// RealTime schedules with time.AfterFunc. Callbacks run on their own
// goroutine.
type RealTime struct{}

// Schedule implements Scheduler.
func (RealTime) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualClock is a Scheduler driven by Advance. Nothing fires until the
// clock is moved past a timer's deadline.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
}

// NewManualClock creates a clock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Schedule implements Scheduler.
func (m *ManualClock) Schedule(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.seq++
	m.timers = append(m.timers, t)
	return func() {
		m.mu.Lock()
		t.stopped = true
		m.mu.Unlock()
	}
}

// Now returns the elapsed clock time.
func (m *ManualClock) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward and runs every due timer in deadline
// order. Callbacks run on the caller's goroutine, outside the clock lock.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due, pending []*manualTimer
	for _, t := range m.timers {
		switch {
		case t.stopped:
		case t.at <= m.now:
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	m.timers = pending
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of timers that have neither fired nor been
// cancelled.
func (m *ManualClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
