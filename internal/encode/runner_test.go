package encode

import (
	"bytes"
	"errors"
	"os/exec"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunner_Success(t *testing.T) {
	requireShell(t)
	var stdout bytes.Buffer
	r := &Runner{Binary: "sh", Stdout: &stdout}

	if err := r.Run(t.Context(), []string{"-c", "echo done"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout.String() != "done\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	requireShell(t)
	var stderr bytes.Buffer
	r := &Runner{Binary: "sh", Stderr: &stderr}

	err := r.Run(t.Context(), []string{"-c", "echo boom >&2; exit 3"})
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("Run() error = %v, want *EncodeError", err)
	}
	if encErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", encErr.ExitCode)
	}
	if encErr.Stderr != "boom\n" {
		t.Errorf("captured stderr = %q", encErr.Stderr)
	}
	if stderr.String() != "boom\n" {
		t.Errorf("streamed stderr = %q", stderr.String())
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	r := &Runner{Binary: "frame-render-no-such-encoder"}
	err := r.Run(t.Context(), nil)
	var encErr *EncodeError
	if !errors.As(err, &encErr) || encErr.ExitCode != -1 {
		t.Errorf("Run() error = %v, want EncodeError with exit -1", err)
	}
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{limit: 4}
	tb.Write([]byte("abc"))
	tb.Write([]byte("defg"))
	if tb.String() != "defg" {
		t.Errorf("tail = %q, want %q", tb.String(), "defg")
	}
}

func TestCheckFFmpegAvailable_Missing(t *testing.T) {
	if _, err := CheckFFmpegAvailable("frame-render-no-such-encoder"); err == nil {
		t.Error("CheckFFmpegAvailable(missing) = nil, want error")
	}
}
