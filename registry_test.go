package simtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (ts *RegistryTestSuite) TestEnsureQueueCreatesOnce() {
	r := newHostRegistry()
	q1, created1 := r.ensureQueue(1, "h0")
	ts.True(created1)

	q2, created2 := r.ensureQueue(1, "h0-again")
	ts.False(created2)
	ts.Same(q1, q2)

	// the name recorded is from the first registration
	ts.Equal("h0", r.hostByID(1).Name)
}

func (ts *RegistryTestSuite) TestEnsureSlotGrowsTable() {
	r := newHostRegistry()
	s5 := r.ensureSlot(5)
	ts.Equal(5, s5.index)
	ts.Equal(6, r.threadCount())

	ts.Nil(r.slotFor(0))
	ts.Same(s5, r.slotFor(5))
}

func (ts *RegistryTestSuite) TestReserveCapacityDoesNotRegisterThreads() {
	r := newHostRegistry()
	r.reserveCapacity(8)

	ts.Equal(0, r.threadCount())
	ts.Nil(r.slotFor(0))
	ts.Nil(r.slotFor(7))

	s0 := r.ensureSlot(0)
	ts.Equal(0, s0.index)
	ts.Equal(1, r.threadCount())
}

func (ts *RegistryTestSuite) TestSetOwnerReportsPrevious() {
	r := newHostRegistry()
	_, had := r.setOwner(1, 0)
	ts.False(had)

	prev, had := r.setOwner(1, 2)
	ts.True(had)
	ts.Equal(0, prev)
}

func (ts *RegistryTestSuite) TestConcurrentEnsureQueueIsRaceFree() {
	r := newHostRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.ensureQueue(1, "h0")
		}()
	}
	wg.Wait()
	ts.Equal(1, len(r.queues))
}

func (ts *RegistryTestSuite) TestResetClearsEverything() {
	r := newHostRegistry()
	r.ensureQueue(1, "h0")
	r.ensureSlot(0)
	r.reset()

	ts.Equal(0, r.threadCount())
	ts.Nil(r.queueFor(1))
}
