package simtime

import "time"

// WorkerMetrics reports per-worker scheduling overhead. The original
// gated this instrumentation behind a USE_PERF_TIMERS build flag; it's
// cheap enough in Go to always collect.
type WorkerMetrics struct {
	// PushIdleTime is the cumulative time this worker's thread spent inside
	// Push calls it made itself, from acquiring its own slot lock through
	// releasing it — lock contention on either the slot or the destination
	// queue shows up here.
	PushIdleTime time.Duration
	// PopIdleTime is the cumulative time this worker's own Pop calls spent
	// in the steal phase, after its own hosts yielded nothing: waiting on
	// victims' rotations, the double-lock acquisition, and taking an event
	// from a victim. Time spent draining its own hosts is not counted.
	PopIdleTime time.Duration
}

// Metrics returns a snapshot of thread's scheduling overhead. Returns the
// zero value if thread has no registered worker slot.
func (p *HostStealPolicy) Metrics(thread int) WorkerMetrics {
	slot := p.registry.slotFor(thread)
	if slot == nil {
		return WorkerMetrics{}
	}
	return WorkerMetrics{
		PushIdleTime: time.Duration(slot.pushIdleNanos.Load()),
		PopIdleTime:  time.Duration(slot.popIdleNanos.Load()),
	}
}
