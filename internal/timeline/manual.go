package timeline

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a virtual-clock Timeline for deterministic tests.
// Time only moves when Advance is called; due callbacks then run
// synchronously on the caller's goroutine in deadline order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue entryHeap
}

// NewManual returns a Manual timeline starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time. Inside a callback it equals that
// callback's deadline.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules fn at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e := &entry{deadline: m.now.Add(d), seq: m.seq, fn: fn}
	heap.Push(&m.queue, e)
	return &manualHandle{m: m, e: e}
}

// Advance moves the clock forward by d, running every callback whose
// deadline falls within the window. Callbacks scheduled while advancing
// also run if they come due before the window closes.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.queue.peek()
		if next == nil || next.deadline.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}
		heap.Pop(&m.queue)
		m.now = next.deadline
		m.mu.Unlock()

		// Run outside the lock so the callback can schedule and cancel.
		if next.claim() {
			next.fn()
		}
	}
}

// Pending returns the number of callbacks still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// NextDeadline returns the earliest pending deadline, if any.
func (m *Manual) NextDeadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.queue.peek()
	if next == nil {
		return time.Time{}, false
	}
	return next.deadline, true
}

func (m *Manual) remove(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.index >= 0 && e.index < len(m.queue) && m.queue[e.index] == e {
		heap.Remove(&m.queue, e.index)
	}
}

type manualHandle struct {
	m *Manual
	e *entry
}

func (h *manualHandle) Cancel() bool {
	if !h.e.cancel() {
		return false
	}
	h.m.remove(h.e)
	return true
}
