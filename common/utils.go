package common

import "fmt"

// Assert checks an internal invariant and panics if it does not hold.
//
// Assertions are reserved for conditions that must be true if the engine's
// own logic is correct: a broken invariant here means continuing could
// corrupt cached pages, so crashing with a stack trace is preferable to
// returning an error. Anything that can legitimately happen at runtime
// (bad caller input, I/O failure, capacity exhaustion) is reported as an
// error value instead, never asserted.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
