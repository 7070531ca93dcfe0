// Package monitoring holds the diagnostic logging hook shared by the
// comparison pipeline. Long passes (indexing, resolution) report progress
// through Logf so batch drivers and tests can redirect or mute it.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Quiet mutes the package logger and returns a restore function, for tests
// that exercise noisy passes.
func Quiet() (restore func()) {
	prev := Logf
	Logf = func(string, ...interface{}) {}
	return func() { Logf = prev }
}
