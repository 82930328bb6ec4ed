package simtime

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type WorkerSlotTestSuite struct {
	suite.Suite
}

func TestWorkerSlotTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerSlotTestSuite))
}

func (ts *WorkerSlotTestSuite) TestHostFIFOOrderAndEmptyHint() {
	f := newHostFIFO()
	ts.True(f.empty())

	f.pushBack(1)
	f.pushBack(2)
	ts.False(f.empty())

	id, ok := f.popFront()
	ts.True(ok)
	ts.EqualValues(1, id)

	id, ok = f.popFront()
	ts.True(ok)
	ts.EqualValues(2, id)

	_, ok = f.popFront()
	ts.False(ok)
	ts.True(f.empty())
}

func (ts *WorkerSlotTestSuite) TestDrainIntoPreservesOrder() {
	src := newHostFIFO()
	dst := newHostFIFO()
	dst.pushBack(100)
	src.pushBack(1)
	src.pushBack(2)

	src.drainInto(dst)

	ts.True(src.empty())
	var got []HostID
	dst.each(func(id HostID) { got = append(got, id) })
	ts.Equal([]HostID{100, 1, 2}, got)
}

func (ts *WorkerSlotTestSuite) TestRotateRoundSwapsWhenUnprocessedEmpty() {
	slot := newWorkerSlot(0)
	slot.processed.pushBack(1)
	slot.processed.pushBack(2)

	rotateRound(slot)

	ts.True(slot.processed.empty())
	var got []HostID
	slot.unprocessed.each(func(id HostID) { got = append(got, id) })
	ts.Equal([]HostID{1, 2}, got)
}

func (ts *WorkerSlotTestSuite) TestRotateRoundDrainsWhenBothNonEmpty() {
	slot := newWorkerSlot(0)
	slot.unprocessed.pushBack(1)
	slot.processed.pushBack(2)
	slot.processed.pushBack(3)

	rotateRound(slot)

	ts.True(slot.processed.empty())
	var got []HostID
	slot.unprocessed.each(func(id HostID) { got = append(got, id) })
	ts.Equal([]HostID{1, 2, 3}, got)
}

func (ts *WorkerSlotTestSuite) TestAssignedHostsConcatenatesInOrder() {
	slot := newWorkerSlot(0)
	slot.processed.pushBack(1)
	slot.unprocessed.pushBack(2)
	running := HostID(3)
	slot.running = &running

	ts.Equal([]HostID{1, 2, 3}, slot.assignedHosts())
}
