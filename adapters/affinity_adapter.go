// File: adapters/affinity_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Adapter implementing the api.Affinity interface, delegating to the
//   affinity package for CPU pinning and worker distribution.

package adapters

import (
	"github.com/momentics/gctaskq/affinity"
	"github.com/momentics/gctaskq/api"
)

// Ensure compile-time interface compliance.
var _ api.Affinity = (*AffinityAdapter)(nil)

// AffinityAdapter implements api.Affinity over the platform affinity layer.
type AffinityAdapter struct{}

// NewAffinityAdapter creates a new AffinityAdapter.
func NewAffinityAdapter() *AffinityAdapter {
	return &AffinityAdapter{}
}

// Pin locks the calling thread to a specific CPU.
func (a *AffinityAdapter) Pin(cpuID int) error {
	return affinity.SetAffinity(cpuID)
}

// Distribute assigns a CPU slot to each worker index.
func (a *AffinityAdapter) Distribute(workers uint) ([]uint, bool) {
	return affinity.Distribute(workers)
}
