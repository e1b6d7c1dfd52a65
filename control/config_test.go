// config_test.go — ConfigStore typed reads and reload propagation.
package control

import (
	"testing"
	"time"
)

func TestConfigStore_TypedReads(t *testing.T) {
	cs := NewConfigStore()
	cs.SetConfig(map[string]any{
		KeyParallelWorkers: 8,
		KeyUseTaskAffinity: true,
	})
	if got := cs.GetUint(KeyParallelWorkers, 1); got != 8 {
		t.Errorf("GetUint = %d, want 8", got)
	}
	if !cs.GetBool(KeyUseTaskAffinity, false) {
		t.Error("GetBool did not read the stored flag")
	}
	if got := cs.GetUint("missing", 3); got != 3 {
		t.Errorf("GetUint default = %d, want 3", got)
	}
	if cs.GetBool(KeyParallelWorkers, false) {
		t.Error("GetBool on mistyped key did not fall back")
	}
}

func TestConfigStore_ReloadHook(t *testing.T) {
	cs := NewConfigStore()
	called := make(chan struct{}, 1)
	cs.OnReload(func() {
		select {
		case called <- struct{}{}:
		default:
		}
	})
	cs.SetConfig(map[string]any{KeyDynamicWorkers: true})
	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("Reload hook not called")
	}
}

func TestMetricsRegistry_SetAll(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.SetAll(map[string]any{"delivered_tasks": uint(5), "barriers": uint(1)})
	snap := mr.GetSnapshot()
	if snap["delivered_tasks"] != uint(5) || snap["barriers"] != uint(1) {
		t.Errorf("snapshot = %+v", snap)
	}
	if mr.Updated().IsZero() {
		t.Error("update time not stamped")
	}
}

func TestDebugProbes_Dump(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("queue_length", func() any { return uint(0) })
	out := dp.DumpState()
	if out["queue_length"] != uint(0) {
		t.Errorf("probe output = %+v", out)
	}
}
