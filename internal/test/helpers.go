package test

import (
	"path/filepath"
	"runtime"
)

// ProjectRoot returns the repository root, so tests can load templates and
// fixtures regardless of the package they run in.
func ProjectRoot() string {
	_, b, _, _ := runtime.Caller(0)
	// Root folder of this project is two levels up from this file
	return filepath.Join(filepath.Dir(b), "../..")
}
