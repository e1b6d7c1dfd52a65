//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	if cpuID < 0 || cpuID >= 64 {
		return fmt.Errorf("affinity: cpu %d outside the processor-group mask", cpuID)
	}
	h := windows.CurrentThread()
	mask := uintptr(1) << uint(cpuID)
	ret, _, err := procSetThreadAffinityMask.Call(uintptr(h), mask)
	if ret == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask failed: %w", err)
	}
	return nil
}

// availableCPUs returns the logical CPUs of the current processor group.
func availableCPUs() []int {
	n := runtime.NumCPU()
	if n > 64 {
		n = 64
	}
	cpus := make([]int, 0, n)
	for i := 0; i < n; i++ {
		cpus = append(cpus, i)
	}
	return cpus
}
