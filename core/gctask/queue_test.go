// queue_test.go — TaskQueue chain invariants, splice, and affinity walks.
package gctask

import "testing"

// probeTask is a minimal ordinary task for queue-level tests.
type probeTask struct {
	Header
	id int
}

func newProbe(id int) *probeTask {
	return &probeTask{Header: NewHeader(KindOrdinary, 1), id: id}
}

func (t *probeTask) Do(m *Manager, which uint) {}

func newBarrierProbe() *WaitForBarrierTask {
	return NewWaitForBarrierTask(1)
}

func checkChain(t *testing.T, q *TaskQueue, wantIDs []int) {
	t.Helper()
	if q.Length() != uint(len(wantIDs)) {
		t.Fatalf("length = %d, want %d", q.Length(), len(wantIDs))
	}
	// Forward: oldest to newest via newer links.
	i := 0
	for e := q.removeEnd; e != nil; e = e.TaskHeader().newer {
		p, ok := e.(*probeTask)
		if !ok {
			t.Fatalf("unexpected task kind at %d", i)
		}
		if p.id != wantIDs[i] {
			t.Fatalf("forward walk[%d] = %d, want %d", i, p.id, wantIDs[i])
		}
		i++
	}
	if i != len(wantIDs) {
		t.Fatalf("forward walk visited %d, want %d", i, len(wantIDs))
	}
	// Backward: newest to oldest via older links.
	i = len(wantIDs) - 1
	for e := q.insertEnd; e != nil; e = e.TaskHeader().older {
		if e.(*probeTask).id != wantIDs[i] {
			t.Fatalf("backward walk[%d] = %d, want %d", i, e.(*probeTask).id, wantIDs[i])
		}
		i--
	}
	if i != -1 {
		t.Fatalf("backward walk stopped early at %d", i)
	}
}

func TestQueue_RoundTrip(t *testing.T) {
	q := NewTaskQueue()
	if !q.IsEmpty() {
		t.Fatal("new queue not empty")
	}
	task := newProbe(1)
	q.Enqueue(task)
	if q.IsEmpty() || q.Length() != 1 {
		t.Fatalf("length = %d after enqueue", q.Length())
	}
	got := q.Dequeue()
	if got != Task(task) {
		t.Fatal("dequeue returned a different task")
	}
	if !q.IsEmpty() {
		t.Fatal("queue not empty after dequeue")
	}
	h := got.TaskHeader()
	if h.older != nil || h.newer != nil {
		t.Fatal("dequeued task still linked")
	}
}

func TestQueue_FIFO(t *testing.T) {
	q := NewTaskQueue()
	for i := 0; i < 5; i++ {
		q.Enqueue(newProbe(i))
	}
	checkChain(t, q, []int{0, 1, 2, 3, 4})
	for i := 0; i < 5; i++ {
		got := q.Dequeue().(*probeTask)
		if got.id != i {
			t.Fatalf("dequeue order %d, want %d", got.id, i)
		}
	}
}

func TestQueue_EnqueueList_EmptyListIsNoop(t *testing.T) {
	q := NewTaskQueue()
	q.Enqueue(newProbe(0))
	empty := NewTaskQueue()
	q.EnqueueList(empty)
	if q.Length() != 1 || !empty.IsEmpty() {
		t.Fatalf("splice of empty list changed state: %d, %d", q.Length(), empty.Length())
	}
	// And the other direction: splice onto an empty target.
	target := NewTaskQueue()
	target.EnqueueList(q)
	checkChain(t, target, []int{0})
	if !q.IsEmpty() {
		t.Fatal("source list not emptied by splice")
	}
}

func TestQueue_EnqueueList_SplicePreservesOrder(t *testing.T) {
	q := NewTaskQueue()
	for i := 0; i < 3; i++ {
		q.Enqueue(newProbe(i))
	}
	list := NewTaskQueue()
	for i := 3; i < 7; i++ {
		list.Enqueue(newProbe(i))
	}
	q.EnqueueList(list)
	if !list.IsEmpty() {
		t.Fatal("argument list not emptied")
	}
	checkChain(t, q, []int{0, 1, 2, 3, 4, 5, 6})
	for i := 0; i < 7; i++ {
		if got := q.Dequeue().(*probeTask).id; got != i {
			t.Fatalf("combined order %d, want %d", got, i)
		}
	}
}

func TestQueue_AffinityMatchWinsOverOldest(t *testing.T) {
	q := NewTaskQueue()
	ty := newProbe(0)
	ty.SetAffinity(7)
	tx := newProbe(1)
	tx.SetAffinity(2)
	q.Enqueue(ty)
	q.Enqueue(tx)
	got := q.DequeueAffinity(2).(*probeTask)
	if got != tx {
		t.Fatalf("affinity dequeue returned id %d, want the matching task", got.id)
	}
	if q.Length() != 1 {
		t.Fatalf("length = %d after affinity dequeue", q.Length())
	}
}

func TestQueue_AffinityNoMatchFallsThrough(t *testing.T) {
	q := NewTaskQueue()
	ty := newProbe(0)
	ty.SetAffinity(7)
	q.Enqueue(ty)
	if got := q.DequeueAffinity(2).(*probeTask); got != ty {
		t.Fatalf("fall-through returned id %d", got.id)
	}
}

func TestQueue_AffinityBarrierStopsWalk(t *testing.T) {
	// Oldest to newest: ty (no match), barrier, tx (match). The walk must
	// stop at the barrier and fall back to the oldest task.
	q := NewTaskQueue()
	ty := newProbe(0)
	ty.SetAffinity(7)
	tx := newProbe(1)
	tx.SetAffinity(2)
	b := newBarrierProbe()
	q.Enqueue(ty)
	q.Enqueue(b)
	q.Enqueue(tx)
	got := q.DequeueAffinity(2)
	if got != Task(ty) {
		t.Fatal("barrier did not stop the affinity walk")
	}
	// The barrier is now the oldest element and leaves by plain dequeue.
	if q.Dequeue() != Task(b) {
		t.Fatal("barrier not at the remove end")
	}
	b.Destroy()
}

func TestQueue_AffinitySkipsOlderNonMatch(t *testing.T) {
	// Oldest to newest: a(2), b(1), c(2); dequeuer 2 takes a, then c.
	q := NewTaskQueue()
	a, b, c := newProbe(0), newProbe(1), newProbe(2)
	a.SetAffinity(2)
	b.SetAffinity(1)
	c.SetAffinity(2)
	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)
	if got := q.DequeueAffinity(2).(*probeTask); got != a {
		t.Fatalf("first affinity dequeue = id %d, want oldest match", got.id)
	}
	if got := q.DequeueAffinity(2).(*probeTask); got != c {
		t.Fatalf("second affinity dequeue = id %d, want the newer match past b", got.id)
	}
	checkChain(t, q, []int{1})
	if b.older != nil || b.newer != nil {
		// b is the only element; its links must be clean.
		t.Fatal("remaining task has dangling links")
	}
}
