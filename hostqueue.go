package simtime

import (
	"sync"

	"github.com/go-foundations/simtime/internal/simheap"
)

// HostQueue is a single host's event queue: a min-heap ordered by
// (Time, seq), guarded by its own mutex so that workers contending for
// different hosts never block each other.
type HostQueue struct {
	mu            sync.Mutex
	heap          *simheap.Heap[*Event]
	lastEventTime uint64
	nPushed       uint64
	nPopped       uint64
}

func newHostQueue() *HostQueue {
	return &HostQueue{
		heap: simheap.New(func(a, b *Event) bool {
			if a.Time != b.Time {
				return a.Time < b.Time
			}
			return a.seq < b.seq
		}),
	}
}

// QueueStats reports a host queue's push/pop counters and the time of the
// last event popped from it, for diagnostics and the P4 conservation check.
type QueueStats struct {
	NPushed       uint64
	NPopped       uint64
	LastEventTime uint64
	Pending       int
}

// Stats returns a point-in-time snapshot of the queue's counters.
func (q *HostQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		NPushed:       q.nPushed,
		NPopped:       q.nPopped,
		LastEventTime: q.lastEventTime,
		Pending:       q.heap.Len(),
	}
}

func (q *HostQueue) peekTime() (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	top, ok := q.heap.Peek()
	if !ok {
		return 0, false
	}
	return top.Time, true
}
