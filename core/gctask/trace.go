// File: core/gctask/trace.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Trace switches for queue and manager transitions. Off by default; the
// facade flips them from its config.

package gctask

import "log"

// TraceTaskManager enables manager protocol tracing.
var TraceTaskManager bool

// TraceTaskQueue enables queue operation tracing.
var TraceTaskQueue bool

func traceManager(format string, args ...any) {
	if TraceTaskManager {
		log.Printf("[gctask] "+format, args...)
	}
}

func traceQueue(format string, args ...any) {
	if TraceTaskQueue {
		log.Printf("[gctask.queue] "+format, args...)
	}
}
