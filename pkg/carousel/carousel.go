// Package carousel provides the slide navigation state machine.
//
// A Controller tracks the current slide index and a transition lock. Every
// successful navigation locks the controller and arms a settle timer; while
// locked, further navigation is ignored.
package carousel

import (
	"fmt"
	"sync"
	"time"
)

// SettleDelay is how long a transition keeps the controller locked.
const SettleDelay = 300 * time.Millisecond

// Cause identifies what triggered a transition.
type Cause string

const (
	CauseNext     Cause = "next"
	CausePrevious Cause = "previous"
	CauseGoTo     Cause = "goto"
)

// State is a snapshot of the controller.
type State struct {
	Index         int
	Transitioning bool
}

// Step records one applied navigation.
type Step struct {
	From  int
	To    int
	Cause Cause
}

// Controller owns the carousel state. It is safe for concurrent use; settle
// callbacks may arrive from timer goroutines.
type Controller struct {
	mu sync.Mutex

	count int
	state State
	delay time.Duration
	sched Scheduler

	gen    uint64 // bumped on every arm; stale callbacks carry an old value
	cancel func()

	keymap    Keymap
	closed    bool
	history   []Step
	listeners map[int]func(State)
	nextID    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the real-time settle scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithDelay overrides SettleDelay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithKeymap replaces DefaultKeymap.
func WithKeymap(km Keymap) Option {
	return func(c *Controller) { c.keymap = km }
}

// New creates a controller for count slides, starting idle on slide 0.
// A count of zero (or less) yields an empty controller that ignores all
// navigation.
func New(count int, opts ...Option) *Controller {
	if count < 0 {
		count = 0
	}
	c := &Controller{
		count:     count,
		delay:     SettleDelay,
		sched:     RealTime{},
		keymap:    DefaultKeymap(),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count returns the number of slides.
func (c *Controller) Count() int { return c.count }

// Empty reports whether there is nothing to show.
func (c *Controller) Empty() bool { return c.count == 0 }

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Index returns the current slide index.
func (c *Controller) Index() int { return c.State().Index }

// Transitioning reports whether the controller is locked.
func (c *Controller) Transitioning() bool { return c.State().Transitioning }

// Next advances one slide, wrapping from the last to the first.
// It reports whether the state changed.
func (c *Controller) Next() bool {
	return c.move(1, CauseNext)
}

// Previous goes back one slide, wrapping from the first to the last.
func (c *Controller) Previous() bool {
	return c.move(-1, CausePrevious)
}

// GoTo jumps to index. Jumping to the current slide, jumping while
// locked, or jumping out of range does nothing.
func (c *Controller) GoTo(index int) bool {
	c.mu.Lock()
	if !c.ready() || index == c.state.Index || index < 0 || index >= c.count {
		c.mu.Unlock()
		return false
	}
	return c.apply(index, CauseGoTo)
}

func (c *Controller) move(delta int, cause Cause) bool {
	c.mu.Lock()
	if !c.ready() {
		c.mu.Unlock()
		return false
	}
	return c.apply(mod(c.state.Index+delta, c.count), cause)
}

// ready must be called with mu held.
func (c *Controller) ready() bool {
	return !c.closed && c.count > 0 && !c.state.Transitioning
}

// apply must be called with mu held; it releases it. The settle timer is
// scheduled after the lock is dropped so a scheduler may run fn at once.
func (c *Controller) apply(to int, cause Cause) bool {
	c.history = append(c.history, Step{From: c.state.Index, To: to, Cause: cause})
	c.state = State{Index: to, Transitioning: true}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	gen, delay, sched := c.gen, c.delay, c.sched
	snapshot, notify := c.state, c.listenersLocked()
	c.mu.Unlock()

	for _, fn := range notify {
		fn(snapshot)
	}

	c.arm(sched, delay, gen)
	return true
}

// arm schedules the settle for gen and keeps its cancel function unless the
// transition already settled, was superseded or the controller closed.
func (c *Controller) arm(sched Scheduler, delay time.Duration, gen uint64) {
	cancel := sched.Schedule(delay, func() { c.settle(gen) })

	c.mu.Lock()
	current := gen == c.gen && c.state.Transitioning && !c.closed
	if current {
		c.cancel = cancel
	}
	c.mu.Unlock()

	if !current {
		cancel()
	}
}

func (c *Controller) settle(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.state.Transitioning || c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Transitioning = false
	c.cancel = nil
	snapshot, notify := c.state, c.listenersLocked()
	c.mu.Unlock()

	for _, fn := range notify {
		fn(snapshot)
	}
}

// OnChange registers fn to be called after every state change, outside the
// controller lock. The returned function unregisters it.
func (c *Controller) OnChange(fn func(State)) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Controller) listenersLocked() []func(State) {
	fns := make([]func(State), 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Close detaches the key bindings and cancels the pending settle timer.
// The controller ignores all input afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.keymap = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// History returns the applied navigations, oldest first.
func (c *Controller) History() []Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Step, len(c.history))
	copy(out, c.history)
	return out
}

// Status returns a one-line description, e.g. "Slide 2/5 [transitioning]".
func (c *Controller) Status() string {
	if c.Empty() {
		return "No slides"
	}
	s := c.State()
	status := fmt.Sprintf("Slide %d/%d", s.Index+1, c.count)
	if s.Transitioning {
		status += " [transitioning]"
	}
	return status
}

// mod is the non-negative remainder of n/m.
func mod(n, m int) int {
	return ((n % m) + m) % m
}
