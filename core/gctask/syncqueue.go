// File: core/gctask/syncqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SyncQueue pairs a TaskQueue with the Manager's monitor. Mutations take
// the monitor; the read-side accessors the Manager uses inside its own
// critical sections assert ownership instead of re-acquiring.

package gctask

import (
	"github.com/momentics/gctaskq/internal/assert"
	"github.com/momentics/gctaskq/internal/monitor"
)

// SyncQueue is a monitor-guarded TaskQueue.
type SyncQueue struct {
	unsynchronized *TaskQueue
	lock           *monitor.Monitor
}

// NewSyncQueue wraps queue with lock.
func NewSyncQueue(queue *TaskQueue, lock *monitor.Monitor) *SyncQueue {
	assert.That(queue != nil, "nil queue")
	assert.That(lock != nil, "nil lock")
	return &SyncQueue{unsynchronized: queue, lock: lock}
}

// Lock returns the guarding monitor.
func (sq *SyncQueue) Lock() *monitor.Monitor { return sq.lock }

// OwnLock reports whether the calling goroutine holds the monitor.
func (sq *SyncQueue) OwnLock() bool { return sq.lock.OwnedBySelf() }

// Unsynchronized returns the underlying queue for use while the monitor is
// already held.
func (sq *SyncQueue) Unsynchronized() *TaskQueue {
	assert.That(sq.OwnLock(), "unsynchronized access without the lock")
	return sq.unsynchronized
}

// IsEmpty reports emptiness; callers hold the monitor.
func (sq *SyncQueue) IsEmpty() bool {
	assert.That(sq.OwnLock(), "queue read without the lock")
	return sq.unsynchronized.IsEmpty()
}

// Length returns the task count; callers hold the monitor.
func (sq *SyncQueue) Length() uint {
	assert.That(sq.OwnLock(), "queue read without the lock")
	return sq.unsynchronized.Length()
}

// Enqueue appends one task under the monitor.
func (sq *SyncQueue) Enqueue(task Task) {
	sq.lock.Lock()
	defer sq.lock.Unlock()
	sq.unsynchronized.Enqueue(task)
}

// EnqueueList splices a whole queue under the monitor.
func (sq *SyncQueue) EnqueueList(list *TaskQueue) {
	sq.lock.Lock()
	defer sq.lock.Unlock()
	sq.unsynchronized.EnqueueList(list)
}

// Dequeue removes the oldest task under the monitor.
func (sq *SyncQueue) Dequeue() Task {
	sq.lock.Lock()
	defer sq.lock.Unlock()
	return sq.unsynchronized.Dequeue()
}

// DequeueAffinity removes a task preferring affinity which, under the
// monitor.
func (sq *SyncQueue) DequeueAffinity(which uint) Task {
	sq.lock.Lock()
	defer sq.lock.Unlock()
	return sq.unsynchronized.DequeueAffinity(which)
}
