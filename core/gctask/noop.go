// File: core/gctask/noop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package gctask

// NoopTask does nothing. The manager keeps one shared instance to hand to
// workers that wake with an empty queue (resource release requests,
// spurious wake-ups) so they run the loop and go back to waiting.
type NoopTask struct {
	Header
}

// newNoopTask builds the manager's shared noop instance. It never performs
// work tied to a collection, so it carries no gc id.
func newNoopTask() *NoopTask {
	return &NoopTask{Header: NewHeader(KindNoop, GCIDUndefined)}
}

// Do returns immediately.
func (t *NoopTask) Do(m *Manager, which uint) {}
