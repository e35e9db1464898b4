package search

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid updates. Set records the latest value at once;
// emit runs with that value after quiet has passed without another Set, and
// only when it differs from the value emitted last.
type Debouncer[T comparable] struct {
	quiet time.Duration
	emit  func(T)

	mu      sync.Mutex
	value   T
	last    T
	emitted bool
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer returns a debouncer that calls emit on its own goroutine.
func NewDebouncer[T comparable](quiet time.Duration, emit func(T)) *Debouncer[T] {
	return &Debouncer[T]{quiet: quiet, emit: emit}
}

// Set updates the current value and restarts the quiet period.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.value = v
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(seq) })
}

// Value returns the latest value passed to Set.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	v, ok := d.takeLocked()
	d.mu.Unlock()
	if ok {
		d.emit(v)
	}
}

// takeLocked marks the current value emitted. It reports false when the
// value equals the last one emitted.
func (d *Debouncer[T]) takeLocked() (T, bool) {
	d.timer = nil
	if d.emitted && d.value == d.last {
		return d.value, false
	}
	d.last = d.value
	d.emitted = true
	return d.value, true
}

// Flush emits a pending value immediately instead of waiting for the quiet
// period. It is a no-op when nothing is pending.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.seq++
	v, ok := d.takeLocked()
	d.mu.Unlock()
	if ok {
		d.emit(v)
	}
}

// Stop cancels any pending emit. Later calls to Set are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
