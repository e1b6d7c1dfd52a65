// File: internal/monitor/monitor.go
// Package monitor provides the mutex + condition-variable primitive the
// task coordinator suspends on.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Monitor pairs a mutex with a single condition variable and tracks the
// owning goroutine so invariant checks can query OwnedBySelf. Owner
// tracking is active only while assert.Enabled; with checks off,
// OwnedBySelf degrades to "some goroutine holds the lock".

package monitor

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/gctaskq/internal/assert"
)

// Monitor is a mutex paired with a condition variable.
type Monitor struct {
	mu    sync.Mutex
	cond  *sync.Cond
	name  string
	owner atomic.Int64 // goroutine id of the holder, 0 when unheld
}

// New creates a named monitor. The name only shows up in trace output and
// assertion messages.
func New(name string) *Monitor {
	m := &Monitor{name: name}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Name returns the monitor's name.
func (m *Monitor) Name() string { return m.name }

// Lock acquires the monitor.
func (m *Monitor) Lock() {
	m.mu.Lock()
	if assert.Enabled {
		m.owner.Store(goid())
	} else {
		m.owner.Store(-1)
	}
}

// Unlock releases the monitor.
func (m *Monitor) Unlock() {
	assert.That(m.IsLocked(), "monitor %q: unlock of unheld monitor", m.name)
	m.owner.Store(0)
	m.mu.Unlock()
}

// Wait atomically releases the monitor and blocks until notified, then
// re-acquires before returning. Callers re-check their condition in a loop:
// wake-ups may be spurious.
func (m *Monitor) Wait() {
	assert.That(m.OwnedBySelf(), "monitor %q: wait without ownership", m.name)
	m.owner.Store(0)
	m.cond.Wait()
	if assert.Enabled {
		m.owner.Store(goid())
	} else {
		m.owner.Store(-1)
	}
}

// NotifyAll wakes every waiter. Callers hold the monitor so a waiter that
// just checked its condition cannot miss the wake.
func (m *Monitor) NotifyAll() {
	assert.That(m.OwnedBySelf(), "monitor %q: notify without ownership", m.name)
	m.cond.Broadcast()
}

// NotifyOne wakes a single waiter.
func (m *Monitor) NotifyOne() {
	assert.That(m.OwnedBySelf(), "monitor %q: notify without ownership", m.name)
	m.cond.Signal()
}

// IsLocked reports whether any goroutine holds the monitor.
func (m *Monitor) IsLocked() bool {
	return m.owner.Load() != 0
}

// OwnedBySelf reports whether the calling goroutine holds the monitor.
// With checks disabled it falls back to IsLocked.
func (m *Monitor) OwnedBySelf() bool {
	o := m.owner.Load()
	if o == -1 || !assert.Enabled {
		return o != 0
	}
	return o == goid()
}
