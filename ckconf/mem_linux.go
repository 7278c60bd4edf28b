//go:build linux

package ckconf

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PhysicalMemory returns the total physical memory in bytes.
func PhysicalMemory() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}
