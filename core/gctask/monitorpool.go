// File: core/gctask/monitorpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-wide free-list of reusable monitors. Monitor construction is
// expensive relative to a typical barrier lifetime, so WaitHelpers draw
// from this pool and return their monitor on destruction. Monitors are
// strictly reused and never discarded while the process runs.

package gctask

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/gctaskq/internal/assert"
	"github.com/momentics/gctaskq/internal/monitor"
)

var monitorPool struct {
	once     sync.Once
	mu       sync.Mutex
	freelist *queue.Queue
}

// ReserveMonitor hands out a pooled monitor, constructing one only when the
// free-list is empty.
func ReserveMonitor() *monitor.Monitor {
	monitorPool.once.Do(func() {
		monitorPool.freelist = queue.New()
	})
	monitorPool.mu.Lock()
	defer monitorPool.mu.Unlock()
	var result *monitor.Monitor
	if monitorPool.freelist.Length() > 0 {
		result = monitorPool.freelist.Remove().(*monitor.Monitor)
	} else {
		result = monitor.New("MonitorPool monitor")
	}
	assert.Guarantee(result != nil, "monitor pool returned nil")
	assert.That(!result.IsLocked(), "pooled monitor is locked")
	return result
}

// ReleaseMonitor returns a monitor to the free-list.
func ReleaseMonitor(m *monitor.Monitor) {
	assert.That(m != nil, "release of nil monitor")
	assert.That(!m.IsLocked(), "release of locked monitor")
	monitorPool.once.Do(func() {
		monitorPool.freelist = queue.New()
	})
	monitorPool.mu.Lock()
	defer monitorPool.mu.Unlock()
	monitorPool.freelist.Add(m)
}
