// waithelper_test.go — WaitHelper signalling and MonitorPool reuse.
package gctask

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/gctaskq/internal/monitor"
)

func TestWaitHelper_NotifyBeforeWait(t *testing.T) {
	wh := NewWaitHelper()
	wh.Notify()
	done := make(chan struct{})
	go func() {
		wh.WaitFor(false)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitFor blocked after Notify")
	}
	wh.releaseMonitor()
}

func TestWaitHelper_ResetRearms(t *testing.T) {
	wh := NewWaitHelper()
	go wh.Notify()
	wh.WaitFor(true)
	if !wh.ShouldWait() {
		t.Fatal("reset did not re-arm the flag")
	}
	// Second cycle on the same helper.
	go wh.Notify()
	wh.WaitFor(true)
	wh.releaseMonitor()
}

func TestWaitHelper_ManyWaiters(t *testing.T) {
	wh := NewWaitHelper()
	const N = 8
	var wg sync.WaitGroup
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wh.WaitFor(false)
		}()
	}
	wh.Notify()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout: waiters missed the notify")
	}
	wh.releaseMonitor()
}

func TestMonitorPool_Reuse(t *testing.T) {
	// Drain leftovers from other tests so the identity check sees a
	// deterministic free-list.
	m0 := ReserveMonitor()
	var drained []*monitor.Monitor
	monitorPool.mu.Lock()
	for monitorPool.freelist.Length() > 0 {
		drained = append(drained, monitorPool.freelist.Remove().(*monitor.Monitor))
	}
	monitorPool.mu.Unlock()

	ReleaseMonitor(m0)
	m1 := ReserveMonitor()
	if m1 != m0 {
		t.Error("free-list did not hand back the released monitor")
	}
	ReleaseMonitor(m1)
	for _, m := range drained {
		ReleaseMonitor(m)
	}
}

func TestMonitorPool_ConcurrentReserve(t *testing.T) {
	const N = 16
	var wg sync.WaitGroup
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m := ReserveMonitor()
				m.Lock()
				m.Unlock()
				ReleaseMonitor(m)
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout: possible deadlock in monitor pool")
	}
}
