package schedule

import (
	"sync"
	"time"
)

// Scheduler creates timers bound to one Clock and Dispatcher.
type Scheduler struct {
	clock Clock
	post  Dispatcher
}

// New returns a Scheduler. Nil arguments default to RealClock and Inline.
func New(clock Clock, post Dispatcher) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if post == nil {
		post = Inline{}
	}
	return &Scheduler{clock: clock, post: post}
}

// After runs fn once after d. The returned timer may be ignored; pulses use
// it fire-and-forget.
func (s *Scheduler) After(d time.Duration, fn func()) Timer {
	return s.clock.AfterFunc(d, func() { s.post.Post(fn) })
}

// Ticker is a periodic schedule with at most one pending fire. Start and
// Reset cancel any running schedule before starting a new one, so calling
// them repeatedly never doubles the rate.
type Ticker struct {
	sched    *Scheduler
	interval time.Duration
	fn       func()

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// Ticker creates a stopped ticker calling fn every interval.
func (s *Scheduler) Ticker(interval time.Duration, fn func()) *Ticker {
	return &Ticker{sched: s, interval: interval, fn: fn}
}

// Interval returns the configured period.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Start cancels any pending fire and schedules the next one a full interval
// from now.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.scheduleLocked(t.gen)
}

// Reset is Start under the name the testimonial carousel uses after a
// manual click.
func (t *Ticker) Reset() {
	t.Start()
}

// Stop cancels the schedule. A fire that already left the clock but has not
// yet run on the dispatcher is dropped.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
}

// Running reports whether a fire is pending.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.timer != nil
}

func (t *Ticker) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (t *Ticker) scheduleLocked(gen uint64) {
	t.timer = t.sched.clock.AfterFunc(t.interval, func() { t.fire(gen) })
}

func (t *Ticker) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.scheduleLocked(gen)
	t.mu.Unlock()

	t.sched.post.Post(func() {
		if !t.current(gen) {
			return
		}
		t.fn()
	})
}

func (t *Ticker) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return gen == t.gen
}

// Debouncer delays fn until Trigger has not been called for delay.
type Debouncer struct {
	sched *Scheduler
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// Debouncer creates an idle debouncer.
func (s *Scheduler) Debouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{sched: s, delay: delay, fn: fn}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = d.sched.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.sched.post.Post(func() {
			d.mu.Lock()
			stale := gen != d.gen
			d.mu.Unlock()
			if !stale {
				d.fn()
			}
		})
	})
}

// Stop discards a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
