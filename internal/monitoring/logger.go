// Package monitoring carries the process-wide diagnostic logger the
// pipeline stages report through.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf;
// replace it with SetLogger to redirect, or Mute to silence.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Mute()
		return
	}
	Logf = f
}

// Mute swaps in a no-op logger. Used by the -quiet flag and by tests that
// exercise noisy paths.
func Mute() {
	Logf = func(string, ...interface{}) {}
}
