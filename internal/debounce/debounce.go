// Package debounce delays propagation of a rapidly changing value until it
// has stopped changing for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is used when New is given a non-positive delay.
const DefaultDelay = 300 * time.Millisecond

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via RealAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc wraps time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Value.
type Option[T comparable] func(*Value[T])

// WithAfterFunc replaces the timer factory (tests use a fake clock).
func WithAfterFunc[T comparable](fn AfterFunc) Option[T] {
	return func(v *Value[T]) { v.after = fn }
}

// OnSettle registers a callback invoked with each newly settled value.
// The callback runs on the timer goroutine without the Value's lock held.
func OnSettle[T comparable](fn func(T)) Option[T] {
	return func(v *Value[T]) { v.onSettle = fn }
}

// Value holds a raw value and its debounced ("settled") counterpart.
// At most one timer is pending; every Set supersedes the previous one.
type Value[T comparable] struct {
	mu       sync.Mutex
	delay    time.Duration
	after    AfterFunc
	onSettle func(T)

	raw     T
	settled T
	timer   Timer
	gen     uint64
	stopped bool
}

// New creates a settled Value holding initial.
func New[T comparable](initial T, delay time.Duration, opts ...Option[T]) *Value[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	v := &Value[T]{
		delay:   delay,
		after:   RealAfterFunc,
		raw:     initial,
		settled: initial,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Set records a raw change and restarts the settle timer.
// Setting the current raw value again is a no-op. Ignored after Stop.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped || (val == v.raw && v.timer != nil) {
		return
	}
	v.raw = val
	v.cancelLocked()
	if val == v.settled {
		return
	}

	v.gen++
	gen := v.gen
	v.timer = v.after(v.delay, func() { v.fire(gen) })
}

// Reset sets raw and settled to val immediately, cancelling any pending timer.
// Ignored after Stop.
func (v *Value[T]) Reset(val T) {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.cancelLocked()
	changed := v.settled != val
	v.raw, v.settled = val, val
	cb := v.onSettle
	v.mu.Unlock()

	if changed && cb != nil {
		cb(val)
	}
}

// Raw returns the latest value passed to Set.
func (v *Value[T]) Raw() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.raw
}

// Settled returns the last value that survived a full delay without changes.
func (v *Value[T]) Settled() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Pending reports whether a settle timer is running.
func (v *Value[T]) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timer != nil
}

// Delay returns the settle interval.
func (v *Value[T]) Delay() time.Duration { return v.delay }

// Stop cancels the pending timer and freezes the value. Safe to call repeatedly.
func (v *Value[T]) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancelLocked()
	v.stopped = true
}

func (v *Value[T]) cancelLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.gen++
}

func (v *Value[T]) fire(gen uint64) {
	v.mu.Lock()
	if v.stopped || gen != v.gen {
		v.mu.Unlock()
		return
	}
	v.timer = nil
	v.settled = v.raw
	val := v.settled
	cb := v.onSettle
	v.mu.Unlock()

	if cb != nil {
		cb(val)
	}
}
