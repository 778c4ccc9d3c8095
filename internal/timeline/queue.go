package timeline

import (
	"container/heap"
	"sync"
	"time"
)

// entry is one scheduled callback. seq breaks deadline ties so callbacks
// scheduled for the same instant run in the order they were scheduled.
type entry struct {
	deadline time.Time
	seq      uint64
	fn       func()
	index    int

	mu        sync.Mutex
	done      bool
	cancelled bool
}

// claim marks the entry as consumed. Returns false if it was already
// cancelled or run.
func (e *entry) claim() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done || e.cancelled {
		return false
	}
	e.done = true
	return true
}

func (e *entry) cancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done || e.cancelled {
		return false
	}
	e.cancelled = true
	return true
}

// entryHeap orders entries by (deadline, seq).
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// peek returns the earliest entry without removing it.
func (h entryHeap) peek() *entry {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

var _ heap.Interface = (*entryHeap)(nil)
