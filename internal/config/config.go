package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory configuration.
type Paths struct {
	ImageRoot  string `toml:"image_root"`
	OutputDir  string `toml:"output_dir"`
	ScratchDir string `toml:"scratch_dir"`
}

// Render contains the defaults applied when a render prompt is left blank or
// answered with an invalid value.
type Render struct {
	Framerate      int     `toml:"framerate"`
	Zoom           float64 `toml:"zoom"`
	Padding        int     `toml:"padding"`
	ZoomStep       float64 `toml:"zoom_step"`
	OutputBaseName string  `toml:"output_base_name"`
}

// Encoder contains the external encoder invocation settings.
type Encoder struct {
	Binary      string `toml:"binary"`
	VideoCodec  string `toml:"video_codec"`
	PixelFormat string `toml:"pixel_format"`
	AudioCodec  string `toml:"audio_codec"`
}

// Generator contains settings for the text-prompt image workflow.
type Generator struct {
	Enabled bool   `toml:"enabled"`
	Model   string `toml:"model"`
	Count   int    `toml:"count"`
}

// Narration contains settings for optional narration audio.
type Narration struct {
	Enabled bool   `toml:"enabled"`
	Model   string `toml:"model"`
	Voice   string `toml:"voice"`
}

// Publish contains settings for uploading finished clips.
type Publish struct {
	S3Bucket string `toml:"s3_bucket"`
	S3Prefix string `toml:"s3_prefix"`
}

// UI contains interactive surface settings.
type UI struct {
	Dialogs bool `toml:"dialogs"`
	Bell    bool `toml:"bell"`
}

// Config encapsulates all configuration values for frame-render.
//
// Configuration sections by subsystem:
//   - Paths: image root, default output folder, scratch space
//   - Render: framerate/zoom/padding defaults
//   - Encoder: ffmpeg binary and codecs
//   - Generator: text-prompt image generation backend
//   - Narration: text-to-speech backend
//   - Publish: optional S3 upload of finished clips
//   - UI: native dialogs, terminal bell
type Config struct {
	Paths     Paths     `toml:"paths"`
	Render    Render    `toml:"render"`
	Encoder   Encoder   `toml:"encoder"`
	Generator Generator `toml:"generator"`
	Narration Narration `toml:"narration"`
	Publish   Publish   `toml:"publish"`
	UI        UI        `toml:"ui"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/frame-render/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults are used. The resolved path and whether it existed
// are returned for start-up logging.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("frame-render.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the scratch directory used for generated images
// and the session lock.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("create scratch directory %q: %w", c.Paths.ScratchDir, err)
	}
	return nil
}

// GeneratedDir is where the text-prompt workflow lands generated images.
func (c *Config) GeneratedDir() string {
	return filepath.Join(c.Paths.ScratchDir, "generated")
}

// LockPath is the session lock file inside the scratch directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.ScratchDir, ".frame-render.lock")
}

// PublishEnabled reports whether finished clips should be uploaded.
func (c *Config) PublishEnabled() bool {
	return strings.TrimSpace(c.Publish.S3Bucket) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules (~ and absolute) to other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
