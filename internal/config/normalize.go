package config

import (
	"fmt"
	"strings"
)

// Normalize trims string settings and expands path fields.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEncoder()
	c.Generator.Model = strings.TrimSpace(c.Generator.Model)
	c.Narration.Model = strings.TrimSpace(c.Narration.Model)
	c.Narration.Voice = strings.TrimSpace(c.Narration.Voice)
	c.Publish.S3Bucket = strings.TrimSpace(c.Publish.S3Bucket)
	c.Publish.S3Prefix = strings.Trim(strings.TrimSpace(c.Publish.S3Prefix), "/")
	c.Render.OutputBaseName = strings.TrimSpace(c.Render.OutputBaseName)
	if c.Render.OutputBaseName == "" {
		c.Render.OutputBaseName = DefaultOutputBaseName
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ImageRoot, err = expandPath(strings.TrimSpace(c.Paths.ImageRoot)); err != nil {
		return fmt.Errorf("paths.image_root: %w", err)
	}
	if c.Paths.ScratchDir, err = expandPath(strings.TrimSpace(c.Paths.ScratchDir)); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	// The output folder is offered as a prompt default, so it keeps the
	// user's spelling apart from home expansion.
	out := strings.TrimSpace(c.Paths.OutputDir)
	if strings.HasPrefix(out, "~") {
		if out, err = expandPath(out); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	if out == "" {
		out = DefaultOutputDir
	}
	c.Paths.OutputDir = out
	return nil
}

func (c *Config) normalizeEncoder() {
	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	c.Encoder.VideoCodec = strings.TrimSpace(c.Encoder.VideoCodec)
	c.Encoder.PixelFormat = strings.TrimSpace(c.Encoder.PixelFormat)
	c.Encoder.AudioCodec = strings.TrimSpace(c.Encoder.AudioCodec)
}
