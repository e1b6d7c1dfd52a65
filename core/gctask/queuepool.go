// File: core/gctask/queuepool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transient TaskQueues are built once per batch and emptied by the splice
// into the manager's queue, so they recycle well. TaskIdleWorkers and
// batch submitters draw them from a process-wide object pool.

package gctask

import (
	"github.com/momentics/gctaskq/internal/assert"
	"github.com/momentics/gctaskq/pool"
)

var transientQueues = pool.NewSyncPool(func() *TaskQueue { return NewTaskQueue() })

// AcquireTaskQueue hands out an empty pooled queue.
func AcquireTaskQueue() *TaskQueue {
	q := transientQueues.Get()
	assert.That(q.IsEmpty(), "pooled queue is not empty")
	return q
}

// ReleaseTaskQueue recycles a queue. It must already be empty — a splice
// via EnqueueList or draining dequeues leaves it that way.
func ReleaseTaskQueue(q *TaskQueue) {
	assert.That(q != nil, "release of nil queue")
	assert.That(q.IsEmpty(), "release of non-empty queue")
	transientQueues.Put(q)
}
