// Package gctask
// Author: momentics <momentics@gmail.com>
//
// Parallel GC work coordination core for gctaskq.
// Implements the shared doubly-linked task queue with barrier-bounded
// affinity dispatch, the blocking submit/get/complete protocol between
// submitters and a fixed gang of worker threads, barrier tasks that drain
// in-flight work, and idle parking for dynamic worker counts.
// See queue.go, manager.go, barrier.go, idle.go for implementation details.
package gctask
