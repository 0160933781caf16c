// Package debounce provides cancellable timer handles for input debouncing
// and periodic UI callbacks.
//
// Callbacks run on timer goroutines. They must not call Stop on the handle
// that invoked them.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for search input.
const DefaultDelay = 300 * time.Millisecond

// Debouncer collapses rapid Trigger calls into a single callback carrying the
// last value, fired once no new value arrived for the configured delay.
// At most one evaluation is pending at any time.
type Debouncer[T any] struct {
	mu       sync.Mutex
	delay    time.Duration
	fn       func(T)
	timer    *time.Timer
	gen      uint64
	last     T
	pending  bool
	stopped  bool
	inflight sync.WaitGroup
}

// New returns a debouncer calling fn after delay of quiet. A non-positive
// delay selects DefaultDelay.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Delay reports the quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Trigger schedules an evaluation of v, replacing any pending one.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.gen++
	gen := d.gen
	d.last, d.pending = v, true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether an evaluation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs the pending evaluation immediately on the caller's goroutine.
// It reports whether anything was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	v := d.take()
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Cancel drops the pending evaluation, if any. The debouncer stays usable.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.take()
}

// Stop cancels the pending evaluation and ignores every later Trigger. When
// Stop returns no callback is running or will run.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.take()
	d.stopped = true
	d.mu.Unlock()

	d.inflight.Wait()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.inflight.Add(1)
	d.mu.Unlock()

	defer d.inflight.Done()
	d.fn(v)
}

// take clears the pending state and returns the last value. Callers hold mu.
func (d *Debouncer[T]) take() T {
	v := d.last
	var zero T
	d.last, d.pending = zero, false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return v
}
