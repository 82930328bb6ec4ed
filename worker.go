package simtime

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// hostFIFO is a FIFO list of host IDs paired with a lock-free length hint.
// The hint lets a thief check "does this worker have anything to steal?"
// without taking the worker's lock: a stale read is safe per §4.5 — a
// false negative just means another thread picks the host up, and a false
// positive just means this steal attempt comes back empty.
type hostFIFO struct {
	l *list.List
	n atomic.Int32
}

func newHostFIFO() *hostFIFO {
	return &hostFIFO{l: list.New()}
}

func (f *hostFIFO) pushBack(id HostID) {
	f.l.PushBack(id)
	f.n.Add(1)
}

func (f *hostFIFO) popFront() (HostID, bool) {
	e := f.l.Front()
	if e == nil {
		return 0, false
	}
	f.l.Remove(e)
	f.n.Add(-1)
	return e.Value.(HostID), true
}

// empty is the lock-free hint described above; callers that need an exact
// answer must hold the owning worker's mutex and use len() instead.
func (f *hostFIFO) empty() bool { return f.n.Load() <= 0 }

// len requires the caller to hold the owning worker's mutex.
func (f *hostFIFO) len() int { return f.l.Len() }

func (f *hostFIFO) each(fn func(HostID)) {
	for e := f.l.Front(); e != nil; e = e.Next() {
		fn(e.Value.(HostID))
	}
}

// drainInto moves every host from f to the tail of dst, in order.
func (f *hostFIFO) drainInto(dst *hostFIFO) {
	for e := f.l.Front(); e != nil; {
		next := e.Next()
		f.l.Remove(e)
		dst.pushBack(e.Value.(HostID))
		e = next
	}
	f.n.Store(0)
}

// workerSlot holds one worker's scheduling state: the hosts it still has
// to process this round, the hosts it has finished, the host it is
// currently running (if any), and the round-start rotation flag that lets
// other workers know it's safe to steal from it.
type workerSlot struct {
	index int

	mu             sync.Mutex
	unprocessed    *hostFIFO
	processed      *hostFIFO
	running        *HostID
	currentBarrier uint64

	// isStealable is true iff this worker has completed its round-start
	// rotation for currentBarrier. Set with a release store after rotation;
	// read with an acquire load by thieves spin-waiting on it (§5).
	isStealable atomic.Bool

	pushIdleNanos atomic.Int64
	popIdleNanos  atomic.Int64
}

func newWorkerSlot(index int) *workerSlot {
	return &workerSlot{
		index:       index,
		unprocessed: newHostFIFO(),
		processed:   newHostFIFO(),
	}
}

func (w *workerSlot) runningHost() (HostID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running == nil {
		return 0, false
	}
	return *w.running, true
}

// assignedHosts returns the concatenation of processed, unprocessed, and
// (if set) the running host, always as one freshly built slice, whether or
// not either FIFO is empty.
func (w *workerSlot) assignedHosts() []HostID {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]HostID, 0, w.processed.len()+w.unprocessed.len()+1)
	w.processed.each(func(id HostID) { out = append(out, id) })
	w.unprocessed.each(func(id HostID) { out = append(out, id) })
	if w.running != nil {
		out = append(out, *w.running)
	}
	return out
}

func (w *workerSlot) recordPushIdle(d time.Duration) { w.pushIdleNanos.Add(int64(d)) }
func (w *workerSlot) recordPopIdle(d time.Duration)  { w.popIdleNanos.Add(int64(d)) }
