// Package resource flushes cached memory between renders and reports process,
// system, and device memory figures. Every operation is best effort: a figure
// that cannot be read is omitted, never reported as an error.
package resource

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
)

// Flusher releases cached memory held by a long-lived component such as the
// resident model client.
type Flusher interface {
	Name() string
	Flush() error
}

// SystemMemory is host RAM usage in bytes.
type SystemMemory struct {
	Used  uint64
	Total uint64
}

// DeviceMemory is accelerator memory usage in bytes for one device.
type DeviceMemory struct {
	Index int
	Name  string
	Used  uint64
	Total uint64
}

// DeviceProbe reads accelerator memory figures.
type DeviceProbe interface {
	DeviceMemory(ctx context.Context) ([]DeviceMemory, error)
}

// Snapshot is one resource report. System is nil and Devices empty when the
// figures are unavailable.
type Snapshot struct {
	TakenAt   time.Time
	HeapAlloc uint64
	HeapSys   uint64
	NumGC     uint32
	System    *SystemMemory
	Devices   []DeviceMemory
}

// Monitor flushes registered components and reports resource usage.
type Monitor struct {
	flushers []Flusher
	probe    DeviceProbe
	system   func() (*SystemMemory, error)
}

// NewMonitor creates a Monitor reading devices through probe (nil disables
// device figures) and flushing the given components.
func NewMonitor(probe DeviceProbe, flushers ...Flusher) *Monitor {
	return &Monitor{
		flushers: flushers,
		probe:    probe,
		system:   readSystemMemory,
	}
}

// Flush runs a garbage collection, returns freed memory to the OS, and asks
// every registered component to release its caches. Failures are logged.
func (m *Monitor) Flush() {
	start := time.Now()
	for _, f := range m.flushers {
		if err := f.Flush(); err != nil {
			log.Warn().Err(err).Str("component", f.Name()).Msg("Flush failed")
		}
	}
	debug.FreeOSMemory()

	log.Debug().
		Int("components", len(m.flushers)).
		Dur("duration", time.Since(start)).
		Msg("Memory flush complete")
}

// Report collects a Snapshot. It never fails.
func (m *Monitor) Report(ctx context.Context) Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	snap := Snapshot{
		TakenAt:   time.Now(),
		HeapAlloc: ms.HeapAlloc,
		HeapSys:   ms.HeapSys,
		NumGC:     ms.NumGC,
	}

	if m.system != nil {
		if sys, err := m.system(); err != nil {
			log.Debug().Err(err).Msg("System memory unavailable")
		} else {
			snap.System = sys
		}
	}

	if m.probe != nil {
		if devices, err := m.probe.DeviceMemory(ctx); err != nil {
			log.Debug().Err(err).Msg("Device memory unavailable")
		} else {
			snap.Devices = devices
		}
	}

	return snap
}
