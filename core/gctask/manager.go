// File: core/gctask/manager.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Manager owns the worker gang, the shared task queue, the bookkeeping
// counters, and the barrier/idle/resource machinery. Workers loop through
// GetTask / Do / NoteCompletion; submitters feed the queue through AddTask,
// AddList, and ExecuteAndWait. Everything the manager reads or mutates is
// guarded by its monitor except the per-worker resource-flag cells and the
// worker table, which AddWorkers alone writes inside externally serialized
// setup windows.

package gctask

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/gctaskq/affinity"
	"github.com/momentics/gctaskq/internal/assert"
	"github.com/momentics/gctaskq/internal/monitor"
)

// Config carries the construction-time parameters of a Manager.
type Config struct {
	// Workers is the configured gang size. Must be non-zero.
	Workers uint
	// UseTaskAffinity turns on affinity-preferring dequeue in GetTask.
	UseTaskAffinity bool
	// BindToCPUs distributes workers across processors and pins them.
	BindToCPUs bool
	// DynamicWorkers starts with a single active worker and lets policy
	// grow the gang; idle parking only makes sense with this on.
	DynamicWorkers bool
	// Policy computes the active worker count; nil means
	// DefaultWorkerPolicy.
	Policy WorkerPolicy
	// LoadSignal feeds the policy; nil means the live-goroutine count.
	LoadSignal func() uint
	// ReleaseResources runs on a worker that observes its release request,
	// before the flag is cleared; nil means only the flag handshake runs.
	ReleaseResources func(which uint)
}

// DefaultConfig returns the canonical static-gang configuration sized to
// the machine.
func DefaultConfig() Config {
	return Config{
		Workers:         uint(runtime.NumCPU()),
		UseTaskAffinity: false,
		BindToCPUs:      false,
		DynamicWorkers:  false,
	}
}

// Stats is a consistent snapshot of the manager's counters.
type Stats struct {
	Workers        uint
	CreatedWorkers uint
	ActiveWorkers  uint
	IdleWorkers    uint
	BusyWorkers    uint
	DeliveredTasks uint
	CompletedTasks uint
	Barriers       uint
	EmptiedQueue   uint
	QueueLength    uint
	Blocked        bool
}

// Manager coordinates a fixed gang of workers over a shared task queue.
type Manager struct {
	cfg     Config
	workers uint

	mon      *monitor.Monitor
	queue    *SyncQueue
	noopTask *NoopTask

	threads             []*WorkerThread
	processorAssignment []uint
	resourceFlag        []atomic.Bool

	// waitHelper gates idle-parked workers; its flag is flipped under the
	// manager monitor.
	waitHelper *WaitHelper

	// Monitor-guarded state.
	createdWorkers uint
	activeWorkers  uint
	idleWorkers    uint
	busyWorkers    uint
	blockingWorker uint
	deliveredTasks uint
	completedTasks uint
	barriers       uint
	emptiedQueue   uint
	terminating    bool
}

// NewManager builds the coordinator, distributes workers across processors
// when asked, and installs the initial gang.
func NewManager(cfg Config) *Manager {
	assert.That(cfg.Workers != 0, "no workers")
	if cfg.Policy == nil {
		cfg.Policy = DefaultWorkerPolicy
	}
	if cfg.LoadSignal == nil {
		cfg.LoadSignal = func() uint { return uint(runtime.NumGoroutine()) }
	}
	m := &Manager{
		cfg:     cfg,
		workers: cfg.Workers,
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	traceManager("Manager.initialize: workers: %d", m.workers)
	m.mon = monitor.New("TaskManager monitor")
	m.queue = NewSyncQueue(NewTaskQueue(), m.mon)
	m.noopTask = newNoopTask()
	m.waitHelper = NewWaitHelper()
	m.resourceFlag = make([]atomic.Bool, m.workers)
	m.threads = make([]*WorkerThread, m.workers)

	// Distribute the workers among the available processors,
	// unless we were told not to, or the platform declines.
	m.processorAssignment = make([]uint, m.workers)
	assigned := false
	if m.cfg.BindToCPUs {
		if dist, ok := affinity.Distribute(m.workers); ok {
			copy(m.processorAssignment, dist)
			assigned = true
		}
	}
	if !assigned {
		for a := uint(0); a < m.workers; a++ {
			m.processorAssignment[a] = SentinelProcessor
		}
	}
	traceManager("Manager.initialize: distribution: %v", m.processorAssignment)

	m.activeWorkers = m.workers
	if m.cfg.DynamicWorkers {
		m.activeWorkers = 1
	}
	m.busyWorkers = 0
	m.setUnblocked()
	m.deliveredTasks = 0
	m.completedTasks = 0
	m.barriers = 0
	m.emptiedQueue = 0

	m.AddWorkers(true)
}

// Monitor returns the manager's monitor. Barrier and idle tasks suspend on
// it from inside Do.
func (m *Manager) Monitor() *monitor.Monitor { return m.mon }

// Queue returns the synchronized queue wrapper.
func (m *Manager) Queue() *SyncQueue { return m.queue }

// WaitHelper returns the helper idle tasks park on.
func (m *Manager) WaitHelper() *WaitHelper { return m.waitHelper }

// Workers returns the configured gang size.
func (m *Manager) Workers() uint { return m.workers }

// CreatedWorkers returns how many workers have been installed so far.
func (m *Manager) CreatedWorkers() uint { return m.createdWorkers }

// ActiveWorkers returns the currently dispatchable worker count.
func (m *Manager) ActiveWorkers() uint { return m.activeWorkers }

// IdleWorkers returns the number of workers parked on idle tasks; callers
// hold the monitor.
func (m *Manager) IdleWorkers() uint {
	assert.That(m.mon.OwnedBySelf(), "idle count read without the monitor")
	return m.idleWorkers
}

// BusyWorkers returns the number of workers executing non-idle tasks;
// callers hold the monitor.
func (m *Manager) BusyWorkers() uint {
	assert.That(m.mon.OwnedBySelf(), "busy count read without the monitor")
	return m.busyWorkers
}

// DeliveredTasks returns the dispatch counter; callers hold the monitor.
func (m *Manager) DeliveredTasks() uint {
	assert.That(m.mon.OwnedBySelf(), "counter read without the monitor")
	return m.deliveredTasks
}

// CompletedTasks returns the completion counter; callers hold the monitor.
func (m *Manager) CompletedTasks() uint {
	assert.That(m.mon.OwnedBySelf(), "counter read without the monitor")
	return m.completedTasks
}

// Barriers returns how many barrier tasks have drained; callers hold the
// monitor.
func (m *Manager) Barriers() uint {
	assert.That(m.mon.OwnedBySelf(), "counter read without the monitor")
	return m.barriers
}

// EmptiedQueue counts transitions to (no busy workers, empty queue);
// callers hold the monitor.
func (m *Manager) EmptiedQueue() uint {
	assert.That(m.mon.OwnedBySelf(), "counter read without the monitor")
	return m.emptiedQueue
}

// IsBlocked reports whether a barrier task is holding dispatch.
func (m *Manager) IsBlocked() bool {
	return m.blockingWorker != SentinelWorker
}

// Snapshot acquires the monitor and returns a consistent counter snapshot
// for metrics and debug probes.
func (m *Manager) Snapshot() Stats {
	m.mon.Lock()
	defer m.mon.Unlock()
	return Stats{
		Workers:        m.workers,
		CreatedWorkers: m.createdWorkers,
		ActiveWorkers:  m.activeWorkers,
		IdleWorkers:    m.idleWorkers,
		BusyWorkers:    m.busyWorkers,
		DeliveredTasks: m.deliveredTasks,
		CompletedTasks: m.completedTasks,
		Barriers:       m.barriers,
		EmptiedQueue:   m.emptiedQueue,
		QueueLength:    m.queue.Length(),
		Blocked:        m.IsBlocked(),
	}
}

// Thread returns the installed worker at index which.
func (m *Manager) Thread(which uint) *WorkerThread {
	assert.That(which < m.createdWorkers, "worker index %d out of bounds", which)
	assert.That(m.threads[which] != nil, "nil worker thread")
	return m.threads[which]
}

// installWorker creates and starts the worker for index t at its assigned
// processor.
func (m *Manager) installWorker(t uint) *WorkerThread {
	assert.That(t < m.workers, "worker index %d out of bounds", t)
	w := newWorkerThread(m, t, m.processorAssignment[t])
	m.threads[t] = w
	w.start()
	return w
}

// AddWorkers grows the installed gang toward min(workers, activeWorkers).
// Idempotent for already-created indices; callers serialize it inside
// setup windows.
func (m *Manager) AddWorkers(initializing bool) {
	previous := m.createdWorkers
	target := m.activeWorkers
	if target > m.workers {
		target = m.workers
	}
	for t := m.createdWorkers; t < target; t++ {
		m.installWorker(t)
	}
	if target > m.createdWorkers {
		m.createdWorkers = target
	}
	if m.activeWorkers > m.createdWorkers {
		m.activeWorkers = m.createdWorkers
	}
	if previous != m.createdWorkers {
		traceManager("AddWorkers(%t): created %d -> %d, active %d",
			initializing, previous, m.createdWorkers, m.activeWorkers)
	}
}

// SetActiveGang recomputes the active worker count from policy and installs
// any missing workers.
func (m *Manager) SetActiveGang() {
	m.activeWorkers = m.cfg.Policy(m.workers, m.activeWorkers, m.cfg.LoadSignal())
	if m.activeWorkers > m.workers {
		m.activeWorkers = m.workers
	}
	// AddWorkers does not guarantee any additional workers.
	m.AddWorkers(false)
	traceManager("SetActiveGang: workers %d active %d created %d",
		m.workers, m.activeWorkers, m.createdWorkers)
}

// UpdateActiveWorkers installs a new active count directly; policy-driven
// callers go through SetActiveGang instead.
func (m *Manager) UpdateActiveWorkers(v uint) {
	assert.That(v <= m.workers, "active worker count %d out of range", v)
	m.activeWorkers = v
}

// AddTask enqueues one task and notifies the gang. The notify happens with
// the monitor held so no worker misses it against the check-then-wait loop
// in GetTask.
func (m *Manager) AddTask(task Task) {
	assert.That(task != nil, "add of nil task")
	m.mon.Lock()
	defer m.mon.Unlock()
	traceManager("AddTask(%s)", task.TaskHeader().Kind())
	m.queue.Unsynchronized().Enqueue(task)
	m.mon.NotifyAll()
}

// AddList splices a whole batch onto the queue and notifies the gang,
// emptying list.
func (m *Manager) AddList(list *TaskQueue) {
	assert.That(list != nil, "add of nil list")
	m.mon.Lock()
	defer m.mon.Unlock()
	traceManager("AddList(%d)", list.Length())
	m.queue.Unsynchronized().EnqueueList(list)
	m.mon.NotifyAll()
}

// Workers wait in GetTask for new work to be queued. When work arrives a
// notify is sent and the waiting workers compete for tasks. A worker that
// wakes to an empty queue is handed the shared noop task so it runs the
// loop and comes back to wait.

// GetTask blocks until the worker may dispatch, then hands back a task.
// Returns nil only during manager teardown.
func (m *Manager) GetTask(which uint) Task {
	m.mon.Lock()
	defer m.mon.Unlock()
	// Wait while the queue is blocked, or there is nothing to do except
	// maybe release resources.
	for m.IsBlocked() ||
		(m.queue.IsEmpty() && !m.ShouldReleaseResources(which)) {
		if m.terminating {
			return nil
		}
		traceManager("GetTask(%d) blocked: %t empty: %t release: %t => wait",
			which, m.IsBlocked(), m.queue.IsEmpty(), m.ShouldReleaseResources(which))
		m.mon.Wait()
	}
	if m.terminating {
		return nil
	}
	// Figure out which condition ended the loop.
	var result Task
	if !m.queue.IsEmpty() {
		uq := m.queue.Unsynchronized()
		if m.cfg.UseTaskAffinity {
			result = uq.DequeueAffinity(which)
		} else {
			result = uq.Dequeue()
		}
		if result.TaskHeader().IsBarrierTask() {
			assert.That(which != SentinelWorker, "blocker shouldn't be bogus")
			m.setBlockingWorker(which)
		}
	} else {
		// The queue is empty, but we were woken up. Hand back the noop
		// task, in case someone wanted us to release resources, or
		// whatever.
		result = m.noopTask
	}
	assert.That(result != nil, "nil task from dispatch")
	traceManager("GetTask(%d) => %s", which, result.TaskHeader().Kind())
	if !result.TaskHeader().IsIdleTask() {
		m.incrementBusyWorkers()
		m.deliveredTasks++
	}
	return result
}

// NoteCompletion records that worker which finished its task, drains a held
// barrier if which is the blocker, and wakes everyone.
func (m *Manager) NoteCompletion(which uint) {
	m.mon.Lock()
	defer m.mon.Unlock()
	traceManager("NoteCompletion(%d)", which)
	// If we are blocked, check whether the completing worker is the
	// blocker.
	if m.blockingWorker == which {
		assert.That(m.blockingWorker != SentinelWorker, "blocker shouldn't be bogus")
		m.barriers++
		m.setUnblocked()
	}
	m.completedTasks++
	active := m.decrementBusyWorkers()
	if active == 0 && m.queue.IsEmpty() {
		m.emptiedQueue++
		traceManager("NoteCompletion(%d) emptied queue", which)
	}
	// Tell everyone that a task has completed.
	m.mon.NotifyAll()
}

// ExecuteAndWait submits the batch plus a fresh barrier task and blocks the
// caller until every task in the batch has completed and the barrier has
// drained (counted in Barriers, dispatch unblocked). The barrier inherits
// the batch's gc id.
func (m *Manager) ExecuteAndWait(list *TaskQueue) {
	assert.That(list != nil, "execute of nil list")
	gcID := GCIDUndefined
	if !list.IsEmpty() {
		gcID = list.insertEnd.TaskHeader().GCID()
	}
	fin := NewWaitForBarrierTask(gcID)
	list.Enqueue(fin)
	// The barrier's fields must be globally visible before a worker reads
	// it off the queue. The monitor acquisition inside AddList orders the
	// stores; the explicit store-store fence that weakly-ordered targets
	// need degrades to exactly that here.
	m.AddList(list)
	fin.WaitFor(true /* reset */)
	// The barrier's Do notifies before its worker reaches NoteCompletion;
	// wait for that completion to count the barrier and clear the block.
	m.mon.Lock()
	for m.IsBlocked() {
		m.mon.Wait()
	}
	m.mon.Unlock()
	// We have to release the barrier's pooled monitor.
	fin.Destroy()
}

// setBlockingWorker records the barrier holder; callers hold the monitor.
func (m *Manager) setBlockingWorker(which uint) {
	assert.That(m.mon.OwnedBySelf(), "blocker write without the monitor")
	m.blockingWorker = which
}

// setUnblocked clears the barrier holder.
func (m *Manager) setUnblocked() {
	m.blockingWorker = SentinelWorker
}

func (m *Manager) incrementBusyWorkers() uint {
	assert.That(m.queue.OwnLock(), "busy increment without the lock")
	m.busyWorkers++
	return m.busyWorkers
}

func (m *Manager) decrementBusyWorkers() uint {
	assert.That(m.queue.OwnLock(), "busy decrement without the lock")
	assert.That(m.busyWorkers > 0, "busy worker underflow")
	m.busyWorkers--
	return m.busyWorkers
}

func (m *Manager) decrementIdleWorkers() {
	assert.That(m.mon.OwnedBySelf(), "idle decrement without the monitor")
	assert.That(m.idleWorkers > 0, "idle worker underflow")
	m.idleWorkers--
	// Destroy may be waiting for the idle count to drain.
	m.mon.NotifyAll()
}

// ReleaseAllResources requests every created worker to release its
// thread-local resources. A request channel, not a strict barrier: the
// flags are single-writer cells consulted inside GetTask under the monitor,
// and repeated sets are idempotent. For an atomic variant, run it inside a
// barrier task.
func (m *Manager) ReleaseAllResources() {
	for i := uint(0); i < m.createdWorkers; i++ {
		m.setResourceFlag(i, true)
	}
}

// ShouldReleaseResources reports whether worker which has a pending release
// request. Lock-free: each worker reads its own cell.
func (m *Manager) ShouldReleaseResources(which uint) bool {
	return m.resourceFlag[which].Load()
}

// NoteRelease clears worker which's release request. Lock-free: each worker
// writes its own cell.
func (m *Manager) NoteRelease(which uint) {
	m.setResourceFlag(which, false)
}

// maybeReleaseResources runs on the worker after each dispatch cycle: when
// a release was requested, invoke the host hook and clear the request.
func (m *Manager) maybeReleaseResources(which uint) {
	if !m.ShouldReleaseResources(which) {
		return
	}
	if m.cfg.ReleaseResources != nil {
		m.cfg.ReleaseResources(which)
	}
	m.NoteRelease(which)
}

func (m *Manager) setResourceFlag(which uint, v bool) {
	assert.That(which < m.workers, "worker index %d out of bounds", which)
	m.resourceFlag[which].Store(v)
}

// TaskIdleWorkers parks the workers beyond the active target on idle
// tasks. The should-wait re-arm, the inactive-worker count, and the
// idle-worker increment all happen under the monitor so the counts are
// consistent with releases racing in.
func (m *Manager) TaskIdleWorkers() {
	var moreInactive int
	func() {
		m.mon.Lock()
		defer m.mon.Unlock()
		// Stop parked workers from exiting their idle tasks and take the
		// counts while they cannot move.
		m.waitHelper.SetShouldWait(true)
		// activeWorkers is a request; idleWorkers are stuck in idle tasks
		// until the next release. If the request plus the parked workers
		// exceed what exists, reduce the request to match.
		moreInactive = int(m.createdWorkers) - int(m.activeWorkers) - int(m.idleWorkers)
		if moreInactive < 0 {
			m.UpdateActiveWorkers(uint(int(m.activeWorkers) + moreInactive))
			moreInactive = 0
		}
		m.idleWorkers += uint(moreInactive)
		assert.That(m.createdWorkers == m.activeWorkers+m.idleWorkers,
			"total workers should equal active + inactive")
		traceManager("TaskIdleWorkers: created %d active %d idle %d more %d",
			m.createdWorkers, m.activeWorkers, m.idleWorkers, moreInactive)
	}()
	q := AcquireTaskQueue()
	for i := 0; i < moreInactive; i++ {
		q.Enqueue(NewIdleTask())
	}
	m.AddList(q)
	ReleaseTaskQueue(q)
}

// ReleaseIdleWorkers lets every parked worker return to dispatch.
func (m *Manager) ReleaseIdleWorkers() {
	m.mon.Lock()
	defer m.mon.Unlock()
	m.waitHelper.SetShouldWait(false)
	m.mon.NotifyAll()
}

// Destroy tears the manager down. Preconditions: no busy workers, an empty
// queue, and idle-parked workers already released (ReleaseIdleWorkers);
// released workers still mid-wake are waited out. Worker goroutines exit
// their loops and are joined before the pooled monitor goes back to the
// free-list.
func (m *Manager) Destroy() {
	m.mon.Lock()
	assert.That(m.queue.IsEmpty(), "still have queued work")
	// In-flight completions and just-released idle workers drain through
	// NoteCompletion / the idle decrement, both of which notify.
	for m.busyWorkers > 0 || m.idleWorkers > 0 {
		assert.That(m.idleWorkers == 0 || !m.waitHelper.ShouldWait(),
			"still have idle-parked workers")
		m.mon.Wait()
	}
	assert.That(m.busyWorkers == 0, "still have busy workers")
	assert.That(m.queue.IsEmpty(), "still have queued work")
	m.terminating = true
	m.mon.NotifyAll()
	m.mon.Unlock()
	for i := uint(0); i < m.createdWorkers; i++ {
		m.threads[i].join()
		m.threads[i] = nil
	}
	m.noopTask.destruct()
	m.noopTask = nil
	m.waitHelper.releaseMonitor()
}
