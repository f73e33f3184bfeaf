// Package staging copies a selected image set into a scratch directory as a
// contiguous, zero-padded frame sequence the encoder can read with a single
// printf-style input pattern.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fpang/frame-render/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// DirName is the staging directory created under the output folder.
const DirName = "temp_images"

// Frame is one staged image.
type Frame struct {
	Source string
	Name   string
}

// StagingError reports a failure to prepare the staging directory or copy a
// frame into it. Output written before the failure is left in place; the next
// Stage call on the same destination removes it.
type StagingError struct {
	Op   string
	Path string
	Err  error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StagingError) Unwrap() error {
	return e.Err
}

// FrameName returns the staged file name for the 1-based rank.
func FrameName(rank int, ext string) string {
	return fmt.Sprintf("%06d%s", rank, ext)
}

// FramePattern returns the encoder input pattern for frames with ext in dest.
func FramePattern(dest, ext string) string {
	return filepath.Join(dest, "%06d"+ext)
}

type options struct {
	progress io.Writer
}

// Option configures Stage.
type Option func(*options)

// WithProgress draws a copy progress bar on w when w is a terminal.
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// Stage recreates dest and copies images into it as 000001<ext>, 000002<ext>,
// ... in input order, keeping each file's own extension. Staging the same
// input twice produces identical directory contents.
func Stage(images []string, dest string, opts ...Option) ([]Frame, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.RemoveAll(dest); err != nil {
		return nil, &StagingError{Op: "clean", Path: dest, Err: err}
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, &StagingError{Op: "mkdir", Path: dest, Err: err}
	}

	bar := newBar(o.progress, len(images))

	frames := make([]Frame, 0, len(images))
	for i, src := range images {
		name := FrameName(i+1, filepath.Ext(src))
		dst := filepath.Join(dest, name)
		if err := copyFile(src, dst); err != nil {
			return frames, &StagingError{Op: "copy", Path: src, Err: err}
		}
		frames = append(frames, Frame{Source: src, Name: name})
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	log.Info().
		Str("dest", dest).
		Int("frames", len(frames)).
		Msg("Images staged")

	return frames, nil
}

func newBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil || total == 0 || !logging.IsTerminal(w) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Copying frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create frame: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy frame: %w", err)
	}
	return out.Close()
}
