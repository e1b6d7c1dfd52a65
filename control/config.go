// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.
// Surfaces the host flags of the task coordinator: gang size, affinity
// dispatch, CPU binding, dynamic worker counts, trace switches.

package control

import (
	"sync"
)

// Well-known configuration keys.
const (
	KeyParallelWorkers  = "parallel_workers"
	KeyUseTaskAffinity  = "use_task_affinity"
	KeyBindWorkersToCPU = "bind_workers_to_cpus"
	KeyDynamicWorkers   = "dynamic_workers"
	KeyTraceTaskManager = "trace_taskmanager"
	KeyTraceTaskQueue   = "trace_taskqueue"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	copy := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		copy[k] = v
	}
	return copy
}

// SetConfig merges new values and dispatches reload if needed.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	cs.dispatchReload()
}

// GetBool reads a boolean key, returning def when absent or mistyped.
func (cs *ConfigStore) GetBool(key string, def bool) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if v, ok := cs.config[key].(bool); ok {
		return v
	}
	return def
}

// GetUint reads an unsigned key, returning def when absent or mistyped.
func (cs *ConfigStore) GetUint(key string, def uint) uint {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	switch v := cs.config[key].(type) {
	case uint:
		return v
	case int:
		if v >= 0 {
			return uint(v)
		}
	}
	return def
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// dispatchReload invokes all listeners.
func (cs *ConfigStore) dispatchReload() {
	for _, fn := range cs.listeners {
		go fn()
	}
}
