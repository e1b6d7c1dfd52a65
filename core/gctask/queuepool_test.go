// queuepool_test.go — Pooled transient queues.
package gctask

import "testing"

func TestTaskQueuePool_RoundTrip(t *testing.T) {
	q := AcquireTaskQueue()
	if !q.IsEmpty() {
		t.Fatal("acquired queue not empty")
	}
	q.Enqueue(newProbe(1))
	if q.Dequeue().(*probeTask).id != 1 {
		t.Fatal("pooled queue lost a task")
	}
	ReleaseTaskQueue(q)
	again := AcquireTaskQueue()
	if !again.IsEmpty() {
		t.Fatal("recycled queue not empty")
	}
	ReleaseTaskQueue(again)
}
