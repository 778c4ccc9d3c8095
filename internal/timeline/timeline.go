// Package timeline provides the single cooperative event queue the session
// scheduler runs on. Callbacks scheduled on a Timeline never run in parallel
// with each other; they fire one at a time in deadline order.
//
// Use Loop in production and Manual in tests.
package timeline

import "time"

// Timeline schedules callbacks against a clock.
type Timeline interface {
	// Now returns the current time on this timeline. Inside a callback it is
	// the callback's deadline (Manual) or the wall clock (Loop).
	Now() time.Time
	// AfterFunc schedules fn to run once after at least d has elapsed.
	// A negative or zero d schedules fn for the next turn of the queue.
	AfterFunc(d time.Duration, fn func()) Handle
}

// Handle is a cancellable reference to one scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running. Returns true if the call
	// cancelled a pending callback, false if it already ran or was cancelled.
	Cancel() bool
}
