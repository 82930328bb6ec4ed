// Package simassert provides contract-violation assertions for the
// scheduler core. These panic rather than return an error: a failed
// assertion indicates a bug in the code driving the scheduler (e.g.
// pushing to an unregistered host), not a recoverable runtime condition.
package simassert

import "fmt"

// Assertf panics with a formatted message if cond is false.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
