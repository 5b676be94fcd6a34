// Package goid extracts the ID of the calling goroutine.
//
// Go deliberately hides goroutine IDs, so the only portable way to get one is
// to parse the first line of the goroutine's own stack trace, which has the
// fixed format "goroutine 123 [running]:". This costs roughly a microsecond
// per call (dominated by runtime.Stack), which is acceptable here: the hosted
// provider calls it once per acquire/release, and a critical region that is
// entered often enough for this to matter should not be a global one.
package goid

import "runtime"

// Current returns the ID of the calling goroutine. IDs are positive, unique
// per goroutine and never reused while the goroutine is alive.
func Current() int64 {
	// Only the first line of the trace is needed.
	// Format: "goroutine 123 [running]:\n..."
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the numeric ID from a stack trace produced by runtime.Stack.
// It returns 0 if the trace does not start with the expected prefix.
func parse(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var id int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
