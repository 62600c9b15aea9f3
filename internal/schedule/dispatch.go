package schedule

import (
	"context"
	"sync"
)

// Dispatcher runs callbacks on the event thread.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

// Post calls f(fn).
func (f DispatcherFunc) Post(fn func()) {
	f(fn)
}

// Inline runs every callback immediately on the calling goroutine. It is
// correct when the caller already is the event thread, as with ManualClock.
type Inline struct{}

// Post runs fn.
func (Inline) Post(fn func()) {
	fn()
}

// Loop serializes callbacks onto the goroutine running Run.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop buffering up to size pending callbacks.
func NewLoop(size int) *Loop {
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues fn. After the loop is closed, fn is dropped.
func (l *Loop) Post(fn func()) {
	if l.closed() {
		return
	}
	select {
	case <-l.done:
	case l.queue <- fn:
	}
}

// Run executes queued callbacks one at a time until ctx is cancelled, then
// closes the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()

	for {
		fn, ok := l.Wait(ctx)
		if !ok {
			return ctx.Err()
		}
		fn()
	}
}

// Wait blocks until a callback is queued and returns it without running it,
// for event loops that run callbacks themselves. ok is false once ctx is
// done or the loop is closed.
func (l *Loop) Wait(ctx context.Context) (fn func(), ok bool) {
	if l.closed() {
		return nil, false
	}
	select {
	case <-ctx.Done():
		return nil, false
	case <-l.done:
		return nil, false
	case f := <-l.queue:
		return f, true
	}
}

// Close stops accepting callbacks; pending ones are discarded.
func (l *Loop) Close() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *Loop) closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
