// File: core/gctask/task.go
// Package gctask implements the parallel GC work coordinator.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Task is the unit of work dispatched by the Manager. Concrete tasks embed
// Header, which carries the kind, the affinity hint, the submitter's gc id,
// and the intrusive links used while the task sits in a TaskQueue.

package gctask

import "github.com/momentics/gctaskq/internal/assert"

// Kind discriminates task behavior inside the dispatch protocol.
type Kind int

const (
	KindUnknown Kind = iota
	KindOrdinary
	KindWaitForBarrier
	KindNoop
	KindIdle
)

// String returns a human-readable kind name for trace output.
func (k Kind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary task"
	case KindWaitForBarrier:
		return "wait for barrier task"
	case KindNoop:
		return "noop task"
	case KindIdle:
		return "idle task"
	case KindUnknown:
		return "unknown task"
	default:
		return "unknown task kind"
	}
}

// SentinelWorker means "no particular worker": the initial affinity of every
// task and the blocking-worker value while no barrier is held.
const SentinelWorker = ^uint(0)

// GCIDUndefined marks tasks that never perform work tied to a collection.
const GCIDUndefined = ^uint64(0)

// Task is the unit of work the Manager hands to workers. Implementations
// embed Header; the queue manages the links through it.
type Task interface {
	// Do runs the task on worker which. Called outside the manager monitor.
	Do(m *Manager, which uint)

	// TaskHeader exposes the embedded Header to the queue and manager.
	TaskHeader() *Header
}

// Header is the embeddable task base: kind, affinity hint, gc id, and the
// older/newer links. When the task is not in any queue both links are nil;
// while enqueued exactly one queue's chain references it.
type Header struct {
	kind     Kind
	affinity uint
	gcID     uint64
	older    Task
	newer    Task
}

// NewHeader builds a Header for a concrete task. Affinity starts at
// SentinelWorker ("any worker").
func NewHeader(kind Kind, gcID uint64) Header {
	return Header{kind: kind, affinity: SentinelWorker, gcID: gcID}
}

// TaskHeader implements the Task link-access contract.
func (h *Header) TaskHeader() *Header { return h }

// Kind returns the task kind.
func (h *Header) Kind() Kind { return h.kind }

// Affinity returns the preferred worker index, SentinelWorker for "any".
func (h *Header) Affinity() uint { return h.affinity }

// SetAffinity installs a preferred worker index. A soft hint: dispatch may
// still hand the task to any worker.
func (h *Header) SetAffinity(which uint) { h.affinity = which }

// GCID returns the identifier inherited from the submitter.
func (h *Header) GCID() uint64 { return h.gcID }

// IsBarrierTask reports whether dispatch must block behind this task.
func (h *Header) IsBarrierTask() bool { return h.kind == KindWaitForBarrier }

// IsIdleTask reports whether this task parks its worker.
func (h *Header) IsIdleTask() bool { return h.kind == KindIdle }

// IsNoopTask reports whether this is the shared do-nothing task.
func (h *Header) IsNoopTask() bool { return h.kind == KindNoop }

// destruct checks the off-queue invariant before a task is discarded.
func (h *Header) destruct() {
	assert.That(h.older == nil, "task still has an older link")
	assert.That(h.newer == nil, "task still has a newer link")
}
