// Package schedule provides the timer primitives the storefront engine runs
// on: a cancel-then-start periodic Ticker, a Debouncer, and one-shot After
// callbacks. Every callback is delivered through a Dispatcher so it runs on
// the page's single event thread, never concurrently with another handler.
//
// Timers come from a Clock. RealClock wraps the time package; ManualClock
// lets tests advance time deterministically.
package schedule
