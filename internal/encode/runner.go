package encode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// stderrTailBytes bounds how much encoder output an EncodeError keeps.
const stderrTailBytes = 4096

// EncodeError reports a failed encoder run.
type EncodeError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("encoder failed (exit code %d): %v", e.ExitCode, e.Err)
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Runner invokes the encoder binary.
type Runner struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a Runner that streams encoder output to the process's
// stdout and stderr.
func NewRunner(binary string) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{Binary: binary, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the encoder with args and waits for it to exit. Output is
// streamed verbatim; a non-zero exit returns *EncodeError carrying the tail of
// stderr. There is no timeout; cancel ctx to stop the encoder.
func (r *Runner) Run(ctx context.Context, args []string) error {
	tail := &tailBuffer{limit: stderrTailBytes}

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Stdout = r.Stdout
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, tail)
	} else {
		cmd.Stderr = tail
	}

	log.Debug().
		Str("binary", r.Binary).
		Strs("args", args).
		Msg("Running encoder")

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		log.Warn().
			Err(err).
			Int("exit_code", exitCode).
			Dur("duration", elapsed).
			Msg("Encoder failed")
		return &EncodeError{ExitCode: exitCode, Stderr: tail.String(), Err: err}
	}

	log.Info().Dur("duration", elapsed).Msg("Encoder finished")
	return nil
}

// CheckFFmpegAvailable looks up the encoder binary on PATH and returns its
// resolved path, or an error with install instructions.
func CheckFFmpegAvailable(binary string) (string, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: install FFmpeg with: brew install ffmpeg (macOS) or apt install ffmpeg (Linux)", binary)
	}
	log.Debug().Str("path", path).Msg("Encoder found")
	return path, nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
