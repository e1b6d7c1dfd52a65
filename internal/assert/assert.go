// File: internal/assert/assert.go
// Package assert implements the coordinator's invariant checks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The task coordinator runs inside trusted runtime code: a silent
// correctness slip would corrupt the work it coordinates. Every invariant
// violation therefore aborts via panic instead of surfacing as an error
// value. Checks stay enabled unless the host disables them.

package assert

import "fmt"

// Enabled gates the non-trivial checks (chain walks, ownership queries).
// Cheap checks fire regardless.
var Enabled = true

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}

// Guarantee panics like That, with a "guarantee:" message prefix. Neither
// consults Enabled; both always check.
func Guarantee(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("guarantee: "+format, args...))
	}
}
