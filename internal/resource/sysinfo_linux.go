//go:build linux

package resource

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func readSystemMemory() (*SystemMemory, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return nil, fmt.Errorf("sysinfo: %w", err)
	}

	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	total := uint64(info.Totalram) * unit
	free := (uint64(info.Freeram) + uint64(info.Bufferram)) * unit
	if free > total {
		free = total
	}
	return &SystemMemory{Used: total - free, Total: total}, nil
}
