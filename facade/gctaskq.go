// File: facade/gctaskq.go
// Unified facade layer for the gctaskq library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the GCTaskQ struct, which aggregates the core
// components of the library behind a single facade. It builds the task
// manager from immutable configuration, wires the control plane (config
// store, metrics registry, debug probes), and exposes the executor and
// control services plus lifecycle methods.

package facade

import (
	"log"
	"sync"

	"github.com/momentics/gctaskq/adapters"
	"github.com/momentics/gctaskq/api"
	"github.com/momentics/gctaskq/control"
	"github.com/momentics/gctaskq/core/gctask"
)

// Config holds parameters immutable per run.
type Config struct {
	Workers          uint                // Configured worker gang size
	UseTaskAffinity  bool                // Affinity-preferring dequeue in dispatch
	BindToCPUs       bool                // Distribute and pin workers to CPUs
	DynamicWorkers   bool                // Start small, grow the gang by policy
	EnableMetrics    bool                // Publish manager counters to the registry
	EnableDebug      bool                // Register debug probes over manager state
	TraceTaskManager bool                // Trace manager protocol transitions
	TraceTaskQueue   bool                // Trace queue operations
	Policy           gctask.WorkerPolicy // Active-worker policy, nil for default
	LoadSignal       func() uint         // Load input for the policy, nil for default
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	base := gctask.DefaultConfig()
	return &Config{
		Workers:         base.Workers,
		UseTaskAffinity: false,
		BindToCPUs:      false,
		DynamicWorkers:  false,
		EnableMetrics:   true,
		EnableDebug:     true,
	}
}

// GCTaskQ is the main facade type.
type GCTaskQ struct {
	cfg      *Config
	manager  *gctask.Manager
	control  *adapters.ControlAdapter
	executor *adapters.ExecutorAdapter

	mu      sync.Mutex
	stopped bool
}

// New assembles a coordinator from cfg.
func New(cfg *Config) (*GCTaskQ, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Workers == 0 {
		return nil, api.ErrInvalidWorkerCount
	}
	gctask.TraceTaskManager = cfg.TraceTaskManager
	gctask.TraceTaskQueue = cfg.TraceTaskQueue

	m := gctask.NewManager(gctask.Config{
		Workers:         cfg.Workers,
		UseTaskAffinity: cfg.UseTaskAffinity,
		BindToCPUs:      cfg.BindToCPUs,
		DynamicWorkers:  cfg.DynamicWorkers,
		Policy:          cfg.Policy,
		LoadSignal:      cfg.LoadSignal,
	})

	g := &GCTaskQ{
		cfg:      cfg,
		manager:  m,
		control:  adapters.NewControlAdapter(),
		executor: adapters.NewExecutorAdapter(m),
	}

	_ = g.control.SetConfig(map[string]any{
		control.KeyParallelWorkers:  cfg.Workers,
		control.KeyUseTaskAffinity:  cfg.UseTaskAffinity,
		control.KeyBindWorkersToCPU: cfg.BindToCPUs,
		control.KeyDynamicWorkers:   cfg.DynamicWorkers,
		control.KeyTraceTaskManager: cfg.TraceTaskManager,
		control.KeyTraceTaskQueue:   cfg.TraceTaskQueue,
	})
	if cfg.EnableDebug {
		g.registerProbes()
	}
	return g, nil
}

// registerProbes exposes coordinator state to the debug surface.
func (g *GCTaskQ) registerProbes() {
	g.control.RegisterDebugProbe("queue_length", func() any {
		return g.manager.Snapshot().QueueLength
	})
	g.control.RegisterDebugProbe("blocked", func() any {
		return g.manager.Snapshot().Blocked
	})
	g.control.RegisterDebugProbe("workers", func() any {
		s := g.manager.Snapshot()
		return map[string]uint{
			"configured": s.Workers,
			"created":    s.CreatedWorkers,
			"active":     s.ActiveWorkers,
			"idle":       s.IdleWorkers,
			"busy":       s.BusyWorkers,
		}
	})
}

// Manager returns the underlying task manager for direct batch submission.
func (g *GCTaskQ) Manager() *gctask.Manager { return g.manager }

// Control returns the control surface.
func (g *GCTaskQ) Control() api.Control { return g.control }

// Executor returns the closure-submission surface.
func (g *GCTaskQ) Executor() api.Executor { return g.executor }

// ExecuteAndWait submits a batch through the manager and blocks until it
// drains, then publishes fresh counters when metrics are enabled.
func (g *GCTaskQ) ExecuteAndWait(list *gctask.TaskQueue) {
	g.manager.ExecuteAndWait(list)
	g.PublishMetrics()
}

// PublishMetrics pushes a manager snapshot into the metrics registry.
func (g *GCTaskQ) PublishMetrics() {
	if !g.cfg.EnableMetrics {
		return
	}
	g.control.PublishStats(g.manager.Snapshot())
}

// Stop tears the coordinator down. Idempotent. The manager requires a
// drained queue and no busy or idle-parked workers.
func (g *GCTaskQ) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}
	g.stopped = true
	g.executor.Close()
	g.manager.Destroy()
	log.Printf("gctaskq: coordinator stopped")
}
