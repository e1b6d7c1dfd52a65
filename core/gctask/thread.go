// File: core/gctask/thread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WorkerThread is the long-lived execution vehicle for one worker index: a
// goroutine locked to an OS thread, optionally pinned to a CPU, running the
// private dispatch loop get -> Do -> note-completion until the manager
// tears down.

package gctask

import (
	"runtime"

	"github.com/momentics/gctaskq/affinity"
	"github.com/momentics/gctaskq/internal/assert"
)

// SentinelProcessor means the worker runs unpinned.
const SentinelProcessor = ^uint(0)

// WorkerThread runs the dispatch loop for a single worker index.
type WorkerThread struct {
	manager   *Manager
	which     uint
	processor uint
	stopped   chan struct{}
}

// newWorkerThread creates (but does not start) a worker bound to index
// which, to be pinned to processor unless it is SentinelProcessor.
func newWorkerThread(m *Manager, which, processor uint) *WorkerThread {
	assert.That(m != nil, "nil manager")
	return &WorkerThread{
		manager:   m,
		which:     which,
		processor: processor,
		stopped:   make(chan struct{}),
	}
}

// Which returns the worker's index.
func (w *WorkerThread) Which() uint { return w.which }

// Processor returns the CPU index the worker pins to, SentinelProcessor if
// unpinned.
func (w *WorkerThread) Processor() uint { return w.processor }

// start launches the worker goroutine.
func (w *WorkerThread) start() {
	go w.run()
}

// join blocks until the worker loop has exited.
func (w *WorkerThread) join() {
	<-w.stopped
}

// run is the worker body. The goroutine stays locked to its OS thread so
// CPU pinning holds for the thread's lifetime.
func (w *WorkerThread) run() {
	defer close(w.stopped)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if w.processor != SentinelProcessor {
		if err := affinity.SetAffinity(int(w.processor)); err != nil {
			traceManager("worker %d: pin to cpu %d failed: %v", w.which, w.processor, err)
		}
	}
	for {
		task := w.manager.GetTask(w.which)
		if task == nil {
			// Manager teardown.
			return
		}
		// Saved up front: after Do a barrier task may already belong to
		// its submitter again.
		isIdle := task.TaskHeader().IsIdleTask()
		task.Do(w.manager, w.which)
		if isIdle {
			// Idle tasks were never counted busy; no completion to note.
			task.(*IdleTask).destroy()
			continue
		}
		w.manager.NoteCompletion(w.which)
		w.manager.maybeReleaseResources(w.which)
	}
}
