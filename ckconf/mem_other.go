//go:build !linux

package ckconf

import (
	"errors"
	"runtime"
)

// PhysicalMemory is only implemented on linux. Elsewhere, set
// Options.MemorySize explicitly.
func PhysicalMemory() (uint64, error) {
	return 0, errors.New("physical memory detection is not supported on " + runtime.GOOS)
}
