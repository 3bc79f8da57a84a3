package ecs

// TimerFunc is a scheduled behavior callback. It receives the owner the
// scheduler is attached to and reports whether it wants to run again:
// returning (next, true) rearms the entry to fire after next seconds
// (zero means the very next service call), returning (_, false) retires it.
type TimerFunc[T any] func(owner T) (next float64, again bool)

type timerEntry[T any] struct {
	remaining float64
	fn        TimerFunc[T]
}

// Timers is an ordered set of countdown callbacks owned by exactly one
// context: a game object, or the world itself for the global scheduler.
// All waiting is expressed through the TimerFunc return protocol; there is
// no handle-based cancellation. Destroying the owner stops the whole set.
type Timers[T any] struct {
	entries []timerEntry[T]
	stopped bool
}

// NewTimers creates an empty scheduler.
func NewTimers[T any]() *Timers[T] {
	return &Timers[T]{}
}

// After creates a scheduler holding a single timer. Composite behaviors
// chain further Add calls onto the result.
func After[T any](delay float64, fn TimerFunc[T]) *Timers[T] {
	return NewTimers[T]().Add(delay, fn)
}

// Add appends a timer entry and returns the receiver so construction can
// chain multiple entries fluently. Negative delays are clamped to zero,
// which means "run on the very next service call".
func (t *Timers[T]) Add(delay float64, fn TimerFunc[T]) *Timers[T] {
	if t == nil || t.stopped || fn == nil {
		return t
	}
	if delay < 0 {
		delay = 0
	}
	t.entries = append(t.entries, timerEntry[T]{remaining: delay, fn: fn})
	return t
}

// Stop drops every pending entry and retires the scheduler for good.
// A Service call in progress notices the stop after the current callback
// returns and invokes no further entries; later Add calls are ignored.
// Called when the owner is destroyed.
func (t *Timers[T]) Stop() {
	if t == nil {
		return
	}
	t.stopped = true
	t.entries = nil
}

// Len reports the number of pending entries.
func (t *Timers[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// NextWake reports the soonest pending deadline without advancing or
// firing anything. ok=false when the set is empty.
func (t *Timers[T]) NextWake() (next float64, ok bool) {
	if t == nil || len(t.entries) == 0 {
		return 0, false
	}
	next = t.entries[0].remaining
	for _, e := range t.entries[1:] {
		if e.remaining < next {
			next = e.remaining
		}
	}
	return next, true
}

// Service advances every pending timer by step seconds and fires the due
// ones. It returns the minimum remaining delay across surviving entries,
// or ok=false when the set ended up empty.
//
// Entries are visited in reverse index order over the slice length captured
// at call start, so a callback may Add to this same scheduler without the
// new entry being serviced in the same call, and removal never skips or
// double-fires a sibling. Callback panics are not recovered here; the host
// tick loop isolates them per owner.
func (t *Timers[T]) Service(owner T, step float64) (next float64, ok bool) {
	if t == nil || t.stopped || len(t.entries) == 0 {
		return 0, false
	}
	for i := len(t.entries) - 1; i >= 0; i-- {
		t.entries[i].remaining -= step
		if t.entries[i].remaining > 0 {
			continue
		}
		// The callback may Add to this scheduler and reallocate the
		// backing array, so index the slice again after it returns. It may
		// also Stop the whole set by destroying the owner; no sibling
		// entry runs after that.
		delay, again := t.entries[i].fn(owner)
		if t.stopped {
			return 0, false
		}
		if again {
			if delay < 0 {
				delay = 0
			}
			t.entries[i].remaining = delay
		} else {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
		}
	}
	return t.NextWake()
}
