// File: core/gctask/waithelper.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WaitHelper is a reusable one-shot completion signal over a pooled
// monitor. The flag only flips true->false under the monitor and waiters
// re-check it after every wake, so a notify can never be missed and
// spurious wake-ups are harmless.

package gctask

import (
	"github.com/momentics/gctaskq/internal/assert"
	"github.com/momentics/gctaskq/internal/monitor"
)

// WaitHelper blocks a waiter until Notify, optionally re-arming for reuse.
type WaitHelper struct {
	mon        *monitor.Monitor
	shouldWait bool
}

// NewWaitHelper reserves a monitor from the pool and arms the flag.
func NewWaitHelper() *WaitHelper {
	return &WaitHelper{mon: ReserveMonitor(), shouldWait: true}
}

// Monitor returns the backing monitor; the lock-order contract is manager
// monitor first, WaitHelper monitor second.
func (w *WaitHelper) Monitor() *monitor.Monitor { return w.mon }

// ShouldWait reads the flag. Unlocked: callers either hold the monitor or
// rely on the external synchronization SetShouldWait documents.
func (w *WaitHelper) ShouldWait() bool { return w.shouldWait }

// SetShouldWait writes the flag without locking. Only the owning protocol
// calls this, under its own synchronization (the manager holds its monitor
// while re-arming idle parking).
func (w *WaitHelper) SetShouldWait(v bool) { w.shouldWait = v }

// WaitFor blocks until Notify. With reset, the flag is re-armed before
// returning so the helper can be reused for the next cycle.
func (w *WaitHelper) WaitFor(reset bool) {
	traceManager("WaitHelper.WaitFor() should_wait: %t", w.shouldWait)
	w.mon.Lock()
	defer w.mon.Unlock()
	for w.shouldWait {
		w.mon.Wait()
	}
	// Re-arm in case someone reuses this helper.
	if reset {
		w.shouldWait = true
	}
}

// Notify clears the flag under the monitor and wakes all waiters. A waiter
// cannot miss this: it checks the flag only while holding the monitor.
func (w *WaitHelper) Notify() {
	w.mon.Lock()
	defer w.mon.Unlock()
	w.shouldWait = false
	w.mon.NotifyAll()
}

// releaseMonitor returns the pooled monitor; the helper is dead afterwards.
func (w *WaitHelper) releaseMonitor() {
	assert.That(w.mon != nil, "wait helper already released its monitor")
	ReleaseMonitor(w.mon)
	w.mon = nil
}
