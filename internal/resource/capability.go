package resource

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/fpang/frame-render/internal/encode"
	"github.com/rs/zerolog/log"
)

// probeTimeout bounds each external capability check.
const probeTimeout = 10 * time.Second

// Capability is the outcome of one startup probe.
type Capability struct {
	Name      string
	Available bool
	Detail    string
}

// Probe checks one capability. A probe reports unavailability through the
// returned Capability, never through a panic or error.
type Probe func(ctx context.Context) Capability

// ProbeCapabilities runs every probe in order. A panicking probe is reported
// as unavailable.
func ProbeCapabilities(ctx context.Context, probes ...Probe) []Capability {
	caps := make([]Capability, 0, len(probes))
	for _, p := range probes {
		caps = append(caps, runProbe(ctx, p))
	}
	return caps
}

func runProbe(ctx context.Context, p Probe) (c Capability) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("Capability probe panicked")
			c = Capability{Name: c.Name, Available: false, Detail: fmt.Sprintf("probe panicked: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	c = p(ctx)
	log.Debug().
		Str("capability", c.Name).
		Bool("available", c.Available).
		Str("detail", c.Detail).
		Msg("Capability probed")
	return c
}

// PrintCapabilities writes one "Checking <name>… OK|NOT FOUND" line per capability.
func PrintCapabilities(w io.Writer, caps []Capability) {
	for _, c := range caps {
		status := "NOT FOUND"
		if c.Available {
			status = "OK"
		}
		fmt.Fprintf(w, "Checking %s… %s\n", c.Name, status)
	}
	fmt.Fprintln(w)
}

// EncoderProbe checks that the encoder binary is on PATH.
func EncoderProbe(binary string) Probe {
	return func(ctx context.Context) Capability {
		c := Capability{Name: "encoder (" + binary + ")"}
		path, err := encode.CheckFFmpegAvailable(binary)
		if err != nil {
			c.Detail = err.Error()
			return c
		}
		c.Available = true
		c.Detail = path
		return c
	}
}

// GPUProbe checks that probe reports at least one device.
func GPUProbe(probe DeviceProbe) Probe {
	return func(ctx context.Context) Capability {
		c := Capability{Name: "GPU"}
		if probe == nil {
			c.Detail = "no device probe configured"
			return c
		}
		devices, err := probe.DeviceMemory(ctx)
		if err != nil {
			c.Detail = err.Error()
			return c
		}
		if len(devices) == 0 {
			c.Detail = "no devices reported"
			return c
		}
		c.Available = true
		c.Detail = fmt.Sprintf("%d device(s)", len(devices))
		return c
	}
}

// HardwareEncoderProbe checks that the encoder binary lists the named codec
// (for example h264_nvenc) in its -encoders output.
func HardwareEncoderProbe(binary, codec string) Probe {
	return func(ctx context.Context) Capability {
		c := Capability{Name: "hardware encoder (" + codec + ")"}
		out, err := exec.CommandContext(ctx, binary, "-hide_banner", "-encoders").Output()
		if err != nil {
			c.Detail = err.Error()
			return c
		}
		if !listsEncoder(string(out), codec) {
			c.Detail = codec + " not listed"
			return c
		}
		c.Available = true
		return c
	}
}

// listsEncoder reports whether ffmpeg -encoders output has a row for codec.
func listsEncoder(output, codec string) bool {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == codec {
			return true
		}
	}
	return false
}
