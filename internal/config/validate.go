package config

import (
	"fmt"
	"strings"
)

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.ScratchDir == "" {
		problems = append(problems, "paths.scratch_dir must be set")
	}
	if c.Render.Framerate <= 0 {
		problems = append(problems, fmt.Sprintf("render.framerate must be positive, got %d", c.Render.Framerate))
	}
	if c.Render.Zoom < 1.0 {
		problems = append(problems, fmt.Sprintf("render.zoom must be >= 1.0, got %g", c.Render.Zoom))
	}
	if c.Render.Padding < 0 {
		problems = append(problems, fmt.Sprintf("render.padding must be >= 0, got %d", c.Render.Padding))
	}
	if c.Render.ZoomStep <= 0 {
		problems = append(problems, fmt.Sprintf("render.zoom_step must be positive, got %g", c.Render.ZoomStep))
	}
	if c.Encoder.Binary == "" {
		problems = append(problems, "encoder.binary must be set")
	}
	if c.Encoder.VideoCodec == "" || c.Encoder.PixelFormat == "" {
		problems = append(problems, "encoder.video_codec and encoder.pixel_format must be set")
	}
	if c.Narration.Enabled && c.Encoder.AudioCodec == "" {
		problems = append(problems, "encoder.audio_codec must be set when narration is enabled")
	}
	if c.Generator.Enabled {
		if c.Generator.Model == "" {
			problems = append(problems, "generator.model must be set when the generator is enabled")
		}
		if c.Generator.Count < 1 || c.Generator.Count > 8 {
			problems = append(problems, fmt.Sprintf("generator.count must be between 1 and 8, got %d", c.Generator.Count))
		}
	}
	if c.Narration.Enabled && c.Narration.Model == "" {
		problems = append(problems, "narration.model must be set when narration is enabled")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
