// File: core/gctask/idle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IdleTask parks a worker on the manager's monitor for the duration of a
// collection, removing it from dispatch eligibility without terminating the
// thread. The manager's shared WaitHelper flag controls the park; the
// worker returns to get-task after ReleaseIdleWorkers clears it.

package gctask

// IdleTask parks its worker until the manager releases idle workers.
type IdleTask struct {
	Header
}

// NewIdleTask builds an idle task. Only meaningful with dynamic worker
// counts.
func NewIdleTask() *IdleTask {
	return &IdleTask{Header: NewHeader(KindIdle, GCIDUndefined)}
}

// Do parks the worker. TaskIdleWorkers raised the idle-worker count under
// the monitor before queueing the task; entry here notifies anyone tracking that
// count, then waits out the manager's should-wait flag and drops the count
// on release.
func (t *IdleTask) Do(m *Manager, which uint) {
	wh := m.WaitHelper()
	traceManager("IdleTask.Do(%d) should_wait: %t", which, wh.ShouldWait())

	m.Monitor().Lock()
	defer m.Monitor().Unlock()
	traceManager("--- idle %d", which)
	m.Monitor().NotifyAll()
	for wh.ShouldWait() {
		m.Monitor().Wait()
	}
	m.decrementIdleWorkers()
	traceManager("--- release %d", which)
}

// destroy checks the off-queue invariant; idle tasks own nothing else.
func (t *IdleTask) destroy() {
	t.destruct()
}
