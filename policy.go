package simtime

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-foundations/simtime/internal/simassert"
)

// PolicyType tags which scheduling policy a SchedulerPolicy handle
// implements, for deployments that support more than one variant (e.g. a
// future static-partitioning policy alongside host-steal).
type PolicyType int

const (
	// PolicyHostSteal is the work-stealing policy implemented by this
	// package.
	PolicyHostSteal PolicyType = iota
)

// SchedulerPolicy is the six-operation contract every scheduling policy
// must implement. Thread is the calling worker's own index (0..n-1);
// unlike the pthread_self()-keyed original, Go call sites pass their own
// index explicitly since there is no ambient OS-thread identity to key
// off of.
type SchedulerPolicy interface {
	AddHost(host Host, thread int)
	GetAssignedHosts(thread int) []Host
	Push(callerThread int, event *Event, src, dst Host, barrier uint64)
	Pop(thread int, barrier uint64) *Event
	GetNextTime(thread int) uint64
	Free()
}

// HostStealPolicy implements SchedulerPolicy using the host-steal
// algorithm: each worker drains its own assigned hosts before stealing an
// unprocessed host from another worker, preserving per-host timestamp
// order and a barrier causality bound.
type HostStealPolicy struct {
	registry        *HostRegistry
	logger          zerolog.Logger
	spinYieldBudget int
	seq             atomic.Uint64
	refCount        atomic.Int32
	hooks           HostArrivalHooks

	policyType PolicyType
}

var _ SchedulerPolicy = (*HostStealPolicy)(nil)

// NewHostStealPolicy constructs a ready-to-use policy, sizing the worker
// slot table's backing array for cfg.NumWorkers threads up front. This is a
// capacity reservation only: no worker slot is actually created (and so no
// thread becomes a live steal candidate) until AddHost or Pop first touches
// it. A slot that existed purely because of NumWorkers, with nobody ever
// calling Pop on it, would sit at barrier 0 forever and make every steal
// attempt against it spin without end — the same hazard the original
// scheduler avoids by only ever looping over threads that are actually
// driven. The returned policy starts with a reference count of 1.
func NewHostStealPolicy(opts ...Option) *HostStealPolicy {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &HostStealPolicy{
		registry:        newHostRegistry(),
		logger:          cfg.Logger,
		spinYieldBudget: cfg.SpinYieldBudget,
		policyType:      PolicyHostSteal,
	}
	if cfg.NumWorkers > 0 {
		p.registry.reserveCapacity(cfg.NumWorkers)
	}
	p.refCount.Store(1)
	return p
}

// Type reports which policy variant this handle implements.
func (p *HostStealPolicy) Type() PolicyType { return p.policyType }

// Ref increments the policy's reference count and returns the new value.
func (p *HostStealPolicy) Ref() int32 { return p.refCount.Add(1) }

// Unref decrements the policy's reference count and returns the new
// value. Callers should treat a return of 0 as "safe to Free".
func (p *HostStealPolicy) Unref() int32 { return p.refCount.Add(-1) }

// RefCount returns the current reference count.
func (p *HostStealPolicy) RefCount() int32 { return p.refCount.Load() }

// SetHostArrivalHooks installs the collaborator hook described in
// HostArrivalHooks. Not safe to call concurrently with Pop.
func (p *HostStealPolicy) SetHostArrivalHooks(hooks HostArrivalHooks) {
	p.hooks = hooks
}

// AddHost registers host (creating its queue if this is the first time it
// has been seen) and assigns it to thread. Idempotent on queue creation;
// not idempotent on assignment — calling AddHost again for an
// already-registered host makes the new thread its owner and appends it to
// that thread's unprocessed list, but does not remove it from any list of
// its previous thread. It is meant for initial assignment before a run
// starts; mid-round re-homing happens only through a steal.
func (p *HostStealPolicy) AddHost(host Host, thread int) {
	simassert.Assertf(thread >= 0, "AddHost: thread index must be non-negative, got %d", thread)

	p.registry.ensureQueue(host.ID, host.Name)
	slot := p.registry.ensureSlot(thread)
	p.registry.setOwner(host.ID, thread)

	slot.mu.Lock()
	if slot.running == nil || *slot.running != host.ID {
		slot.unprocessed.pushBack(host.ID)
	}
	slot.mu.Unlock()
}

// GetAssignedHosts returns the full set of hosts assigned to thread:
// its processed hosts, its unprocessed hosts, and its running host (if
// any), in that order. Safe to call between rounds.
func (p *HostStealPolicy) GetAssignedHosts(thread int) []Host {
	slot := p.registry.slotFor(thread)
	if slot == nil {
		return nil
	}
	ids := slot.assignedHosts()
	hosts := make([]Host, len(ids))
	for i, id := range ids {
		hosts[i] = p.registry.hostByID(id)
	}
	return hosts
}

// Push delivers event to dst's queue, applying the causality adjustment
// when it crosses hosts. callerThread identifies the pushing worker (0 if
// the push originates outside any worker, e.g. from initial seeding code);
// its slot lock, if any, is held across the push so push-idle time is
// attributed consistently with Pop's own lock ordering (own slot before
// destination queue).
func (p *HostStealPolicy) Push(callerThread int, event *Event, src, dst Host, barrier uint64) {
	if src.ID != dst.ID && event.Time < barrier {
		p.logger.Debug().
			Uint64("old_time", event.Time).
			Uint64("new_time", barrier).
			Str("dst", dst.Name).
			Msg("inter-host event time bumped for causality")
		event.Time = barrier
	}

	q := p.registry.queueFor(dst.ID)
	simassert.Assertf(q != nil, "Push: destination host %q is not registered", dst.Name)

	start := time.Now()
	slot := p.registry.slotFor(callerThread)
	if slot != nil {
		slot.mu.Lock()
	}

	q.mu.Lock()
	event.seq = p.seq.Add(1)
	q.heap.Push(event)
	q.nPushed++
	q.mu.Unlock()

	if slot != nil {
		slot.mu.Unlock()
		slot.recordPushIdle(time.Since(start))
	}
}

// Pop returns the next event with Time < barrier from any host assigned
// to or stolen by thread, or nil if none is available before the barrier.
// A nil return means thread is idle until the next barrier.
func (p *HostStealPolicy) Pop(thread int, barrier uint64) *Event {
	slot := p.registry.slotFor(thread)
	if slot == nil {
		return nil
	}

	slot.mu.Lock()
	if barrier > slot.currentBarrier {
		slot.currentBarrier = barrier
		rotateRound(slot)
		// Release-store: a thief that observes isStealable == true is
		// guaranteed to see this round's rotated unprocessed list.
		slot.isStealable.Store(true)
	}
	event := p.popFromThread(slot, slot.unprocessed, slot, barrier)
	slot.mu.Unlock()

	if event != nil {
		return event
	}

	start := time.Now()
	event = p.steal(slot, barrier)
	slot.recordPopIdle(time.Since(start))
	return event
}

// rotateRound moves every host from processed to the tail of unprocessed,
// swapping the two FIFOs outright when unprocessed is already empty. Must
// be called with slot.mu held.
func rotateRound(slot *workerSlot) {
	if slot.unprocessed.l.Len() == 0 {
		slot.unprocessed, slot.processed = slot.processed, slot.unprocessed
		return
	}
	slot.processed.drainInto(slot.unprocessed)
}

// popFromThread dequeues hosts from hosts (which may be thief's own
// unprocessed list, or another worker's, when called from steal) until it
// finds a due event or hosts is exhausted. thief.running and
// thief.processed always belong to thief, regardless of which FIFO hosts
// is: a host "won" from another worker's queue still becomes thief's
// running host.
//
// owner is whichever slot's mutex already guards hosts — thief itself, or
// the victim being stolen from — and is threaded through to
// migrateOwnership so it can inspect that slot's state without trying to
// lock a mutex the caller already holds.
//
// Callers must hold thief.mu, and, if hosts belongs to another worker,
// that worker's mu too.
func (p *HostStealPolicy) popFromThread(thief *workerSlot, hosts *hostFIFO, owner *workerSlot, barrier uint64) *Event {
	for hosts.l.Len() > 0 || thief.running != nil {
		if thief.running == nil {
			id, ok := hosts.popFront()
			simassert.Assertf(ok, "popFromThread: host list reported non-empty but popFront failed")
			thief.running = &id
		}
		hostID := *thief.running

		q := p.registry.queueFor(hostID)
		simassert.Assertf(q != nil, "popFromThread: running host %d has no registered queue", hostID)

		q.mu.Lock()
		top, ok := q.heap.Peek()

		var event *Event
		if ok && top.Time < barrier {
			simassert.Assertf(top.Time >= q.lastEventTime,
				"popFromThread: host %d queue time moved backward: %d < %d", hostID, top.Time, q.lastEventTime)
			q.lastEventTime = top.Time
			event = q.heap.Pop()
			q.nPopped++
			p.migrateOwnership(hostID, thief.index, owner)
		}

		if event == nil {
			thief.processed.pushBack(hostID)
			thief.running = nil
			p.hooks.fire(p.registry.hostByID(hostID))
		}
		q.mu.Unlock()

		if event != nil {
			return event
		}
	}
	return nil
}

// migrateOwnership records that hostID is now owned by newThread. Unlike
// AddHost, this never touches any worker's unprocessed/processed lists: it
// is only called from popFromThread immediately after hostID has become
// thief.running, so the host needs no queue placement — it's already
// being run.
//
// lockedOwner is the slot popFromThread already holds the mutex for on
// this goroutine (thief, or the victim being stolen from). When hostID's
// previous owner is that same slot, its running field is read directly
// instead of through runningHost(), which takes the slot's mutex itself —
// re-acquiring an already-held sync.Mutex on the same goroutine deadlocks,
// and this is exactly the steal path that runs on every successful steal.
func (p *HostStealPolicy) migrateOwnership(hostID HostID, newThread int, lockedOwner *workerSlot) {
	prev, had := p.registry.setOwner(hostID, newThread)
	if had && prev == newThread {
		return
	}
	if had {
		if lockedOwner != nil && lockedOwner.index == prev {
			simassert.Assertf(lockedOwner.running == nil || *lockedOwner.running != hostID,
				"migrateOwnership: host %d still marked running on its old owner thread %d", hostID, prev)
		}
		p.logger.Trace().
			Uint64("host", uint64(hostID)).
			Int("from", prev).
			Int("to", newThread).
			Msg("host migrated")
	}
}

// GetNextTime returns the minimum Time over all events in all queues
// assigned to thread, or SimTimeMax if none. Hosts in processed are
// included because between rounds nothing has yet been rotated back.
func (p *HostStealPolicy) GetNextTime(thread int) uint64 {
	slot := p.registry.slotFor(thread)
	if slot == nil {
		return SimTimeMax
	}

	var ids []HostID
	slot.mu.Lock()
	slot.unprocessed.each(func(id HostID) { ids = append(ids, id) })
	slot.processed.each(func(id HostID) { ids = append(ids, id) })
	slot.mu.Unlock()

	next := SimTimeMax
	for _, id := range ids {
		q := p.registry.queueFor(id)
		if q == nil {
			continue
		}
		if t, ok := q.peekTime(); ok && t < next {
			next = t
		}
	}

	p.logger.Debug().Uint64("next_event_time", next).Int("thread", thread).Msg("computed next event time")
	return next
}

// Free tears down all registry structures. Not safe to call concurrently
// with any other operation.
func (p *HostStealPolicy) Free() {
	p.registry.reset()
}
