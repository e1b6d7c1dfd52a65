// File: core/gctask/barrier.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WaitForBarrierTask synchronizes a submitter with the completion of a
// whole batch. ExecuteAndWait appends one to the batch; the worker that
// dequeues it holds dispatch blocked (the manager records the blocking
// worker) and waits until it is the only busy worker, then wakes the
// submitter through the task's WaitHelper.

package gctask

import "github.com/momentics/gctaskq/internal/assert"

// WaitForBarrierTask blocks dispatch until all other in-flight tasks drain.
type WaitForBarrierTask struct {
	Header
	waitHelper *WaitHelper
}

// NewWaitForBarrierTask builds a barrier task with a freshly armed helper.
func NewWaitForBarrierTask(gcID uint64) *WaitForBarrierTask {
	return &WaitForBarrierTask{
		Header:     NewHeader(KindWaitForBarrier, gcID),
		waitHelper: NewWaitHelper(),
	}
}

// doItInternal waits, under the manager monitor, for this worker to be the
// only busy one.
func (t *WaitForBarrierTask) doItInternal(m *Manager, which uint) {
	assert.That(m.Monitor().OwnedBySelf(), "barrier wait without the manager monitor")
	assert.That(m.IsBlocked(), "manager is not blocked")
	for m.BusyWorkers() > 1 {
		traceManager("WaitForBarrierTask.Do(%d) waiting on %d workers", which, m.BusyWorkers())
		m.Monitor().Wait()
	}
}

// Do drains the other workers, then notifies the submitter. The manager
// monitor is released before touching the helper's monitor, preserving the
// manager-then-helper lock order.
func (t *WaitForBarrierTask) Do(m *Manager, which uint) {
	func() {
		m.Monitor().Lock()
		defer m.Monitor().Unlock()
		t.doItInternal(m, which)
	}()
	t.waitHelper.Notify()
}

// WaitFor blocks the submitter until the barrier drains. reset re-arms the
// helper for reuse.
func (t *WaitForBarrierTask) WaitFor(reset bool) {
	t.waitHelper.WaitFor(reset)
}

// Destroy releases the pooled monitor. The task must be off-queue.
func (t *WaitForBarrierTask) Destroy() {
	t.destruct()
	t.waitHelper.releaseMonitor()
}
