package simtime

import "runtime"

// steal scans the other registered workers, in cyclic order starting just
// after thief, looking for an unprocessed host to take over. Returns the
// first due event found, or nil once every candidate has been tried.
func (p *HostStealPolicy) steal(thief *workerSlot, barrier uint64) *Event {
	n := p.registry.threadCount()

	for i := 1; i < n; i++ {
		victimIdx := (thief.index + i) % n
		victim := p.registry.slotFor(victimIdx)
		if victim == nil {
			continue
		}

		if !p.awaitRotation(victim, barrier) {
			continue
		}

		if victim.unprocessed.empty() {
			continue
		}

		event := p.stealFrom(thief, victim, barrier)
		if event != nil {
			return event
		}
	}
	return nil
}

// awaitRotation spins until victim has rotated for barrier (or already
// had), so a steal attempt never races the start of a round. Returns false
// if p.spinYieldBudget is exhausted first, telling the caller to give up
// on victim for this attempt rather than spin forever.
func (p *HostStealPolicy) awaitRotation(victim *workerSlot, barrier uint64) bool {
	victim.mu.Lock()
	spinForInit := barrier > victim.currentBarrier
	if spinForInit {
		// Force the flag false so we're guaranteed to detect the flip to
		// true, even if a previous round left it set.
		victim.isStealable.Store(false)
	}
	victim.mu.Unlock()

	if !spinForInit {
		return true
	}

	for spins := 0; !victim.isStealable.Load(); spins++ {
		if p.spinYieldBudget > 0 && spins >= p.spinYieldBudget {
			return false
		}
		runtime.Gosched()
	}
	return true
}

// stealFrom attempts to take one event from victim's unprocessed hosts on
// thief's behalf, acquiring both workers' locks in ascending index order
// to avoid deadlock against a concurrent steal in the other direction.
func (p *HostStealPolicy) stealFrom(thief, victim *workerSlot, barrier uint64) *Event {
	start := thiefBeforeVictim(thief, victim)
	lockPair(thief, victim, start)
	defer unlockPair(thief, victim, start)

	return p.popFromThread(thief, victim.unprocessed, victim, barrier)
}

func thiefBeforeVictim(thief, victim *workerSlot) bool {
	return thief.index < victim.index
}

func lockPair(thief, victim *workerSlot, thiefFirst bool) {
	if thiefFirst {
		thief.mu.Lock()
		victim.mu.Lock()
	} else {
		victim.mu.Lock()
		thief.mu.Lock()
	}
}

func unlockPair(thief, victim *workerSlot, thiefFirst bool) {
	if thiefFirst {
		victim.mu.Unlock()
		thief.mu.Unlock()
	} else {
		thief.mu.Unlock()
		victim.mu.Unlock()
	}
}
