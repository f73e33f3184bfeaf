package config

import (
	"os"
	"path/filepath"
)

// Render defaults applied on blank or invalid input.
const (
	DefaultFramerate      = 24
	DefaultZoom           = 1.0
	DefaultPadding        = 0
	DefaultZoomStep       = 0.0005
	DefaultOutputDir      = "output"
	DefaultOutputBaseName = "rendered_video"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ImageRoot:  "images",
			OutputDir:  DefaultOutputDir,
			ScratchDir: filepath.Join(os.TempDir(), "frame-render"),
		},
		Render: Render{
			Framerate:      DefaultFramerate,
			Zoom:           DefaultZoom,
			Padding:        DefaultPadding,
			ZoomStep:       DefaultZoomStep,
			OutputBaseName: DefaultOutputBaseName,
		},
		Encoder: Encoder{
			Binary:      "ffmpeg",
			VideoCodec:  "libx264",
			PixelFormat: "yuv420p",
			AudioCodec:  "aac",
		},
		Generator: Generator{
			Enabled: true,
			Model:   "imagen-4.0-generate-001",
			Count:   4,
		},
		Narration: Narration{
			Enabled: false,
			Model:   "gemini-2.5-flash-preview-tts",
			Voice:   "Kore",
		},
		UI: UI{
			Dialogs: false,
			Bell:    true,
		},
	}
}
