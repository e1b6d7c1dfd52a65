// File: core/gctask/policy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker policy: how many of the configured workers should be active for
// the next cycle, given a load signal from the host. The manager consults
// the installed policy from SetActiveGang.

package gctask

// WorkerPolicy computes the desired number of active workers from the
// configured total, the current active count, and a load signal such as
// the number of live application threads.
type WorkerPolicy func(configured, active, loadSignal uint) uint

// DefaultWorkerPolicy scales active workers with the load signal: half the
// live application threads, never below one, never shrinking the current
// request, capped at the configured total.
func DefaultWorkerPolicy(configured, active, loadSignal uint) uint {
	if configured == 0 {
		return 0
	}
	desired := loadSignal / 2
	if desired < 1 {
		desired = 1
	}
	if desired < active {
		desired = active
	}
	if desired > configured {
		desired = configured
	}
	return desired
}
