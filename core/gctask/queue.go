// File: core/gctask/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TaskQueue is the unsynchronized doubly-linked FIFO the Manager dispatches
// from. It supports O(1) append of single tasks and whole queues (splice)
// plus an affinity-preferring dequeue that never searches past a barrier.
// Callers provide synchronization; the Manager wraps one in a SyncQueue.

package gctask

import "github.com/momentics/gctaskq/internal/assert"

// TaskQueue is a doubly-linked FIFO of tasks. insertEnd holds the newest
// element, removeEnd the oldest; links run older<->newer between them.
type TaskQueue struct {
	insertEnd Task
	removeEnd Task
	length    uint
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{}
	q.initialize()
	return q
}

func (q *TaskQueue) initialize() {
	q.insertEnd = nil
	q.removeEnd = nil
	q.length = 0
}

// IsEmpty reports whether the queue holds no tasks.
func (q *TaskQueue) IsEmpty() bool {
	return q.insertEnd == nil
}

// Length returns the number of enqueued tasks.
func (q *TaskQueue) Length() uint {
	return q.length
}

// Enqueue appends task at the insert end (newest position).
func (q *TaskQueue) Enqueue(task Task) {
	assert.That(task != nil, "enqueue of nil task")
	h := task.TaskHeader()
	assert.That(h.older == nil, "task already on a queue")
	assert.That(h.newer == nil, "task already on a queue")
	traceQueue("enqueue(%s)", h.Kind())
	h.newer = nil
	h.older = q.insertEnd
	if q.IsEmpty() {
		q.removeEnd = task
	} else {
		q.insertEnd.TaskHeader().newer = task
	}
	q.insertEnd = task
	q.length++
	q.verifyLength()
}

// EnqueueList splices list's whole chain after the insert end and empties
// list. Single-pointer splice, not element-by-element.
func (q *TaskQueue) EnqueueList(list *TaskQueue) {
	assert.That(list != nil, "enqueue of nil list")
	if list.IsEmpty() {
		// Enqueueing the empty list: nothing to do.
		return
	}
	traceQueue("enqueue(list len=%d)", list.length)
	listLength := list.length
	if q.IsEmpty() {
		// Enqueueing to empty list: just acquire elements.
		q.insertEnd = list.insertEnd
		q.removeEnd = list.removeEnd
		q.length = listLength
	} else {
		// Splice the argument list behind our insert end.
		list.removeEnd.TaskHeader().older = q.insertEnd
		q.insertEnd.TaskHeader().newer = list.removeEnd
		q.insertEnd = list.insertEnd
		q.length += listLength
	}
	list.initialize()
	q.verifyLength()
}

// Dequeue removes and returns the oldest task.
func (q *TaskQueue) Dequeue() Task {
	assert.That(!q.IsEmpty(), "dequeue from empty queue")
	result := q.remove()
	assert.That(result != nil, "remove returned nil task")
	traceQueue("dequeue() => %s", result.TaskHeader().Kind())
	return result
}

// DequeueAffinity removes a task preferring one whose affinity equals
// which. The walk runs oldest to newest and stops at the first barrier
// task: barriers are never reordered around, so on hitting one the oldest
// task is taken instead. No match before the chain ends also falls back to
// the oldest task.
func (q *TaskQueue) DequeueAffinity(which uint) Task {
	assert.That(!q.IsEmpty(), "dequeue from empty queue")
	var result Task
	for element := q.removeEnd; element != nil; element = element.TaskHeader().newer {
		if element.TaskHeader().IsBarrierTask() {
			// Don't consider barrier tasks, nor past them.
			result = nil
			break
		}
		if element.TaskHeader().Affinity() == which {
			result = q.removeTask(element)
			break
		}
	}
	// Nothing with that affinity: just take the next task.
	if result == nil {
		result = q.remove()
	}
	traceQueue("dequeue(%d) => %s", which, result.TaskHeader().Kind())
	return result
}

// remove unlinks and returns the task at the remove end.
func (q *TaskQueue) remove() Task {
	result := q.removeEnd
	assert.That(result != nil, "remove from empty queue")
	h := result.TaskHeader()
	assert.That(h.older == nil, "not the remove end")
	q.removeEnd = h.newer
	if q.removeEnd == nil {
		assert.That(q.insertEnd == result, "not a singleton")
		q.insertEnd = nil
	} else {
		q.removeEnd.TaskHeader().older = nil
	}
	h.newer = nil
	q.length--
	q.verifyLength()
	return result
}

// removeTask unlinks an interior (or end) task from the chain.
func (q *TaskQueue) removeTask(task Task) Task {
	assert.That(task != nil, "remove of nil task")
	h := task.TaskHeader()
	if h.newer != nil {
		h.newer.TaskHeader().older = h.older
	} else {
		assert.That(q.insertEnd == task, "not the newest task")
		q.insertEnd = h.older
	}
	if h.older != nil {
		h.older.TaskHeader().newer = h.newer
	} else {
		assert.That(q.removeEnd == task, "not the oldest task")
		q.removeEnd = h.newer
	}
	h.newer = nil
	h.older = nil
	q.length--
	q.verifyLength()
	return task
}

// verifyLength walks the chain and checks the count against length.
func (q *TaskQueue) verifyLength() {
	if !assert.Enabled {
		return
	}
	var count uint
	for element := q.insertEnd; element != nil; element = element.TaskHeader().older {
		count++
	}
	assert.That(count == q.length, "length %d does not match queue count %d", q.length, count)
}
