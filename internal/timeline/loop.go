package timeline

import (
	"container/heap"
	"sync"
	"time"
)

// Loop is the production Timeline. Each scheduled callback is armed with a
// time.Timer; when the timer expires the callback is queued and executed
// by the single loop goroutine, so callbacks never run concurrently.
type Loop struct {
	mu     sync.Mutex
	seq    uint64
	ready  entryHeap
	timers map[*entry]*time.Timer
	closed bool

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a Loop and starts its goroutine. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		timers: make(map[*entry]*time.Timer),
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time { return time.Now() }

// AfterFunc arms a timer that queues fn on the loop goroutine after d.
// Scheduling on a closed Loop returns a handle that never fires.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	e := &entry{deadline: time.Now().Add(d), seq: l.seq, fn: fn, index: -1}
	if l.closed {
		e.cancelled = true
		return &loopHandle{l: l, e: e}
	}
	l.timers[e] = time.AfterFunc(d, func() { l.enqueue(e) })
	return &loopHandle{l: l, e: e}
}

// Close stops the loop goroutine and disarms every pending timer.
// Callbacks that have not started yet never run. Safe to call more than once,
// but not from inside a callback.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		for e, t := range l.timers {
			t.Stop()
			e.cancel()
		}
		for _, e := range l.ready {
			e.cancel()
		}
		l.timers = nil
		l.ready = nil
		l.mu.Unlock()

		close(l.quit)
	})
	<-l.done
}

// Pending returns the number of armed or queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers) + len(l.ready)
}

func (l *Loop) enqueue(e *entry) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	delete(l.timers, e)
	heap.Push(&l.ready, e)
	l.mu.Unlock()

	// Non-blocking: one pending wake-up is enough to drain the queue.
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			return
		case <-l.wake:
			l.drain()
		}
	}
}

// drain runs every queued callback in deadline order.
func (l *Loop) drain() {
	for {
		select {
		case <-l.quit:
			return
		default:
		}

		l.mu.Lock()
		if len(l.ready) == 0 {
			l.mu.Unlock()
			return
		}
		e := heap.Pop(&l.ready).(*entry)
		l.mu.Unlock()

		if e.claim() {
			e.fn()
		}
	}
}

func (l *Loop) disarm(e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.timers[e]; ok {
		t.Stop()
		delete(l.timers, e)
	}
	if e.index >= 0 && e.index < len(l.ready) && l.ready[e.index] == e {
		heap.Remove(&l.ready, e.index)
	}
}

type loopHandle struct {
	l *Loop
	e *entry
}

func (h *loopHandle) Cancel() bool {
	if !h.e.cancel() {
		return false
	}
	h.l.disarm(h.e)
	return true
}
