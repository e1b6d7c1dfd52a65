// File: affinity/distribute.go
// Author: momentics <momentics@gmail.com>
//
// Processor distribution for worker gangs: assigns each worker index a
// logical CPU, round-robin over the CPUs the process may run on. The
// caller pins each worker thread to its slot via SetAffinity.

package affinity

// maxCPUProbe bounds the CPU-set scan on platforms that expose one.
const maxCPUProbe = 1024

// Distribute fills a per-worker CPU assignment for workers slots. It
// declines (ok = false) when the platform cannot enumerate CPUs, leaving
// the caller to run every worker unpinned.
func Distribute(workers uint) ([]uint, bool) {
	cpus := availableCPUs()
	if len(cpus) == 0 {
		return nil, false
	}
	assignment := make([]uint, workers)
	for w := uint(0); w < workers; w++ {
		assignment[w] = uint(cpus[int(w)%len(cpus)])
	}
	return assignment, true
}
