package resource

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeFlusher struct {
	name  string
	err   error
	calls int
}

func (f *fakeFlusher) Name() string { return f.name }

func (f *fakeFlusher) Flush() error {
	f.calls++
	return f.err
}

type fakeProbe struct {
	devices []DeviceMemory
	err     error
}

func (p fakeProbe) DeviceMemory(context.Context) ([]DeviceMemory, error) {
	return p.devices, p.err
}

func TestMonitor_FlushCallsEveryFlusher(t *testing.T) {
	ok := &fakeFlusher{name: "model"}
	failing := &fakeFlusher{name: "device", err: errors.New("busy")}
	m := NewMonitor(nil, ok, failing)

	m.Flush()

	if ok.calls != 1 || failing.calls != 1 {
		t.Errorf("flush calls = %d, %d; want 1, 1", ok.calls, failing.calls)
	}
}

func TestMonitor_ReportDegrades(t *testing.T) {
	m := NewMonitor(fakeProbe{err: errors.New("no driver")})
	m.system = func() (*SystemMemory, error) { return nil, errors.New("unsupported") }

	snap := m.Report(t.Context())
	if snap.HeapSys == 0 {
		t.Error("HeapSys = 0, want runtime figure")
	}
	if snap.System != nil {
		t.Errorf("System = %+v, want nil", snap.System)
	}
	if len(snap.Devices) != 0 {
		t.Errorf("Devices = %+v, want none", snap.Devices)
	}

	var buf bytes.Buffer
	snap.Render(&buf)
	if !strings.Contains(buf.String(), "Go heap") || strings.Contains(buf.String(), "GPU") {
		t.Errorf("Render() = %q", buf.String())
	}
}

func TestMonitor_ReportAllFigures(t *testing.T) {
	m := NewMonitor(fakeProbe{devices: []DeviceMemory{{Index: 0, Name: "RTX", Used: 2 << 30, Total: 8 << 30}}})
	m.system = func() (*SystemMemory, error) { return &SystemMemory{Used: 3 << 30, Total: 16 << 30}, nil }

	snap := m.Report(t.Context())
	var buf bytes.Buffer
	snap.Render(&buf)

	out := buf.String()
	for _, want := range []string{"CPU RAM", "3.0 GiB", "16 GiB", "GPU 0 (RTX)", "8.0 GiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestParseNvidiaSMI(t *testing.T) {
	devices, err := parseNvidiaSMI("0, NVIDIA A100, 1024, 40960\n1, NVIDIA A100, 0, 40960\n")
	if err != nil {
		t.Fatalf("parseNvidiaSMI() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(devices))
	}
	if devices[0].Used != 1024*mib || devices[1].Index != 1 || devices[0].Name != "NVIDIA A100" {
		t.Errorf("devices = %+v", devices)
	}

	if _, err := parseNvidiaSMI("garbage"); err == nil {
		t.Error("parseNvidiaSMI(garbage) error = nil")
	}
}
