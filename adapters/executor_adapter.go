// File: adapters/executor_adapter.go
// Package adapters provides glue between the gctask core and api contracts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ExecutorAdapter implements the api.Executor interface over the gctask
// Manager: submitted closures become ordinary tasks on the shared queue and
// run on the gang's worker threads (pinned to CPUs only with BindToCPUs).

package adapters

import (
	"sync/atomic"

	"github.com/momentics/gctaskq/api"
	"github.com/momentics/gctaskq/core/gctask"
)

// Ensure compile-time interface compliance.
var _ api.Executor = (*ExecutorAdapter)(nil)

// funcTask wraps a closure as an ordinary task.
type funcTask struct {
	gctask.Header
	fn func()
}

func (t *funcTask) Do(m *gctask.Manager, which uint) {
	t.fn()
}

// ExecutorAdapter exposes a Manager as an api.Executor.
type ExecutorAdapter struct {
	manager *gctask.Manager
	closed  atomic.Bool
}

// NewExecutorAdapter wraps an existing manager. The adapter does not own
// the manager's lifecycle; Close only fences further submissions.
func NewExecutorAdapter(m *gctask.Manager) *ExecutorAdapter {
	return &ExecutorAdapter{manager: m}
}

// Submit dispatches a closure to the gang as an ordinary task.
func (ea *ExecutorAdapter) Submit(task func()) error {
	if task == nil {
		return api.ErrInvalidArgument
	}
	if ea.closed.Load() {
		return api.ErrManagerShutdown
	}
	ea.manager.AddTask(&funcTask{
		Header: gctask.NewHeader(gctask.KindOrdinary, gctask.GCIDUndefined),
		fn:     task,
	})
	return nil
}

// NumWorkers returns the currently dispatchable worker count.
func (ea *ExecutorAdapter) NumWorkers() int {
	return int(ea.manager.ActiveWorkers())
}

// Resize retargets the active worker count, clamped to the configured gang
// size, installing missing workers as needed.
func (ea *ExecutorAdapter) Resize(newCount int) {
	if newCount < 1 {
		newCount = 1
	}
	target := uint(newCount)
	if target > ea.manager.Workers() {
		target = ea.manager.Workers()
	}
	ea.manager.UpdateActiveWorkers(target)
	ea.manager.AddWorkers(false)
}

// Close fences further submissions.
func (ea *ExecutorAdapter) Close() {
	ea.closed.Store(true)
}
