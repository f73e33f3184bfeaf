// Package encode builds ffmpeg argument lists for a staged frame sequence and
// runs the encoder.
package encode

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Encoder defaults.
const (
	DefaultBinary      = "ffmpeg"
	DefaultVideoCodec  = "libx264"
	DefaultPixelFormat = "yuv420p"
	DefaultAudioCodec  = "aac"
	DefaultZoomStep    = 0.0005
)

// Request describes one render: how to turn the staged frames into a clip.
type Request struct {
	Framerate  int
	Zoom       float64
	Padding    int
	AudioPath  string
	OutputPath string
}

// Builder turns a Request into an encoder argument list.
type Builder struct {
	VideoCodec  string
	PixelFormat string
	AudioCodec  string
	ZoomStep    float64
}

// NewBuilder returns a Builder with the default codecs and zoom step.
func NewBuilder() *Builder {
	return &Builder{
		VideoCodec:  DefaultVideoCodec,
		PixelFormat: DefaultPixelFormat,
		AudioCodec:  DefaultAudioCodec,
		ZoomStep:    DefaultZoomStep,
	}
}

// Build returns the encoder arguments, excluding the binary name, for frames
// matching pattern. All inputs come before any output option so that -vf is
// never parsed as an option of the audio input. The audio track is added
// only when req.AudioPath names an existing file.
func (b *Builder) Build(pattern string, req Request) []string {
	args := []string{"-y", "-framerate", strconv.Itoa(req.Framerate), "-i", pattern}

	hasAudio := audioExists(req.AudioPath)
	if hasAudio {
		args = append(args, "-i", req.AudioPath)
	}

	if filters := b.Filters(req); len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}

	args = append(args, "-c:v", b.videoCodec(), "-pix_fmt", b.pixelFormat())
	if hasAudio {
		args = append(args, "-c:a", b.audioCodec(), "-shortest")
	}

	return append(args, req.OutputPath)
}

// Filters returns the video filter chain for req in its fixed order: zoom, then pad.
func (b *Builder) Filters(req Request) []string {
	var filters []string
	if req.Zoom > 1.0 {
		filters = append(filters, fmt.Sprintf("zoompan=z='min(zoom+%s,%s)':d=1",
			formatFloat(b.zoomStep()), formatFloat(req.Zoom)))
	}
	if req.Padding > 0 {
		p := req.Padding
		filters = append(filters, fmt.Sprintf("pad=iw+%d:ih+%d:%d:%d:black", 2*p, 2*p, p, p))
	}
	return filters
}

func (b *Builder) videoCodec() string {
	if b.VideoCodec == "" {
		return DefaultVideoCodec
	}
	return b.VideoCodec
}

func (b *Builder) pixelFormat() string {
	if b.PixelFormat == "" {
		return DefaultPixelFormat
	}
	return b.PixelFormat
}

func (b *Builder) audioCodec() string {
	if b.AudioCodec == "" {
		return DefaultAudioCodec
	}
	return b.AudioCodec
}

func (b *Builder) zoomStep() float64 {
	if b.ZoomStep <= 0 {
		return DefaultZoomStep
	}
	return b.ZoomStep
}

func audioExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CommandLine renders binary and args as a single display string, quoting
// arguments that contain whitespace or quotes. It is for display only.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\n'\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
