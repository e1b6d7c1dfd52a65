// Package pool
// Author: momentics <momentics@gmail.com>
//
// Object reuse layer for gctaskq. Transient batch queues churn once per
// collection cycle, and the gctask package recycles them through SyncPool;
// barrier tasks, idle tasks and wait helpers are still allocated per use.
// See objpool.go.
package pool
