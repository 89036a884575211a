package testutils

import (
	"testing"
)

// LogError is a test helper function to log an error message if it is not nil.
//
// This is to help make sure our error messages are helpful and informative.
func LogError(t *testing.T, err error) {
	if err == nil {
		return
	}

	t.Helper()
	t.Logf("error message:\n%v", err)
}

// Recovered runs f and returns the value it panics with, or nil if it returns
// normally.
func Recovered(f func()) (val any) {
	defer func() {
		val = recover()
	}()

	f()
	return nil
}
