// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"github.com/momentics/gctaskq/api"
	"github.com/momentics/gctaskq/control"
	"github.com/momentics/gctaskq/core/gctask"
)

// Ensure compile-time interface compliance.
var _ api.Control = (*ControlAdapter)(nil)

// ControlAdapter binds the config store, metrics registry, and debug probes
// into the api.Control contract.
type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

// NewControlAdapter builds an empty control plane.
func NewControlAdapter() *ControlAdapter {
	return &ControlAdapter{
		config:  control.NewConfigStore(),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

// SetConfig merges values and applies the trace switches immediately.
func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	gctask.TraceTaskManager = c.config.GetBool(control.KeyTraceTaskManager, gctask.TraceTaskManager)
	gctask.TraceTaskQueue = c.config.GetBool(control.KeyTraceTaskQueue, gctask.TraceTaskQueue)
	return nil
}

// Stats merges metric values with debug probe output.
func (c *ControlAdapter) Stats() map[string]any {
	combined := make(map[string]any)
	for k, v := range c.metrics.GetSnapshot() {
		combined[k] = v
	}
	for k, v := range c.debug.DumpState() {
		combined["debug."+k] = v
	}
	return combined
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
}

// SetMetric publishes one metric value.
func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

// PublishStats publishes a manager snapshot into the metrics registry.
func (c *ControlAdapter) PublishStats(s gctask.Stats) {
	c.metrics.SetAll(map[string]any{
		"workers":         s.Workers,
		"created_workers": s.CreatedWorkers,
		"active_workers":  s.ActiveWorkers,
		"idle_workers":    s.IdleWorkers,
		"busy_workers":    s.BusyWorkers,
		"delivered_tasks": s.DeliveredTasks,
		"completed_tasks": s.CompletedTasks,
		"barriers":        s.Barriers,
		"emptied_queue":   s.EmptiedQueue,
		"queue_length":    s.QueueLength,
		"blocked":         s.Blocked,
	})
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}
