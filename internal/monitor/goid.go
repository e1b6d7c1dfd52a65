// File: internal/monitor/goid.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Goroutine identity for monitor ownership tracking. The id is parsed out
// of the runtime.Stack header ("goroutine 12 [running]:"). Monitors pay
// for this on every Lock and Wait while assert.Enabled is set.

package monitor

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// goid returns the calling goroutine's id.
func goid() int64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(s, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(s[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
