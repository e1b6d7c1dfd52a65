// Package control
// Author: momentics <momentics@gmail.com>
//
// Control plane for gctaskq: dynamic configuration store with hot-reload
// listeners, a metrics registry fed by the task manager's dispatch
// counters, and debug probes over the coordinator's internal state.
package control
