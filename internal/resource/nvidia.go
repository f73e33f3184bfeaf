package resource

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const mib = 1 << 20

// NvidiaSMI reads device memory through the nvidia-smi CLI.
type NvidiaSMI struct {
	Binary string
}

// NewNvidiaSMI returns a probe using nvidia-smi from PATH.
func NewNvidiaSMI() *NvidiaSMI {
	return &NvidiaSMI{Binary: "nvidia-smi"}
}

// DeviceMemory implements DeviceProbe.
func (n *NvidiaSMI) DeviceMemory(ctx context.Context) ([]DeviceMemory, error) {
	path, err := exec.LookPath(n.Binary)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", n.Binary, err)
	}

	out, err := exec.CommandContext(ctx, path,
		"--query-gpu=index,name,memory.used,memory.total",
		"--format=csv,noheader,nounits",
	).Output()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", n.Binary, err)
	}
	return parseNvidiaSMI(string(out))
}

// parseNvidiaSMI parses "index, name, used MiB, total MiB" rows.
func parseNvidiaSMI(output string) ([]DeviceMemory, error) {
	var devices []DeviceMemory
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("unexpected nvidia-smi row: %q", line)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid device index %q: %w", fields[0], err)
		}
		used, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid memory.used %q: %w", fields[2], err)
		}
		total, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid memory.total %q: %w", fields[3], err)
		}

		devices = append(devices, DeviceMemory{
			Index: index,
			Name:  fields[1],
			Used:  used * mib,
			Total: total * mib,
		})
	}
	return devices, nil
}
