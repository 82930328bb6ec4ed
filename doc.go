// Package simtime implements the host-steal work-stealing scheduler policy
// for a parallel discrete-event network simulator.
//
// The simulated world is partitioned into hosts, each owning a per-host
// event queue ordered by (time, insertion sequence). A fixed pool of
// worker threads advances simulated time cooperatively under a
// round/barrier protocol: each worker processes events from its assigned
// hosts in timestamp order, and once its own assignment is exhausted for
// the round it steals an unprocessed host from another worker rather than
// idling.
//
// The package exposes this behavior behind the SchedulerPolicy interface
// (AddHost, GetAssignedHosts, Push, Pop, GetNextTime, Free), implemented
// by HostStealPolicy. Everything outside that interface — CLI/config
// parsing, the application-interposition shim, guest memory management,
// topology and latency modeling — is the embedding simulator's job, not
// this package's.
package simtime
