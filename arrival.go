package simtime

// HostArrivalHooks lets an embedding simulator reattach thread-affine host
// state (e.g. a ptrace attachment) around the point in Pop where a host's
// queue has no more events before the barrier and the host is about to be
// handed off (to processedHosts, and potentially to a thief next round).
//
// This is the Go realization of the original's commented-out
// host_migrate(host, &oldThread, &newThread) call: rather than this
// package knowing anything about ptrace or thread-local state, it exposes
// the two call sites unconditionally and lets the caller do nothing
// (the zero value) if it doesn't need them.
type HostArrivalHooks struct {
	// OnHostArrived is called with the host that a worker is about to stop
	// actively running (mirrors the original's worker_setActiveHost(host)).
	OnHostArrived func(Host)
	// OnHostLeaving is called immediately after OnHostArrived, once the
	// worker has detached from the host (mirrors worker_setActiveHost(nil)).
	OnHostLeaving func(Host)
}

func (h HostArrivalHooks) fire(host Host) {
	if h.OnHostArrived != nil {
		h.OnHostArrived(host)
	}
	if h.OnHostLeaving != nil {
		h.OnHostLeaving(host)
	}
}
