// Package generator turns a scene description into image files the
// selection engine can browse.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fpang/frame-render/internal/filehandler"
	"github.com/fpang/frame-render/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Generator writes images for prompt into dir and returns how many it wrote.
// Writing zero images is not an error.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt, dir string) (int, error)
}

// GeminiGenerator generates images with an Imagen model through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	count  int
}

// NewGeminiGenerator creates a generator asking model for count images per prompt.
func NewGeminiGenerator(client *genai.Client, model string, count int) *GeminiGenerator {
	if count < 1 {
		count = 1
	}
	return &GeminiGenerator{client: client, model: model, count: count}
}

// Name implements Generator.
func (g *GeminiGenerator) Name() string {
	return g.model
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt, dir string) (int, error) {
	log.Info().
		Str("model", g.model).
		Int("count", g.count).
		Int("prompt_length", len(prompt)).
		Msg("Generating images")

	start := time.Now()
	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: int32(g.count),
		OutputMIMEType: "image/png",
	})
	elapsed := time.Since(start)
	if err != nil {
		metrics.New(metrics.Namespace).
			Dimension("Model", g.model).
			Metric("ImageGenerationMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
			Count("ImageGenerationErrors").
			Flush()
		return 0, fmt.Errorf("image generation failed: %w", err)
	}

	var images []Image
	for _, gi := range resp.GeneratedImages {
		if gi == nil || gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			if gi != nil && gi.RAIFilteredReason != "" {
				log.Warn().Str("reason", gi.RAIFilteredReason).Msg("Generated image filtered")
			}
			continue
		}
		images = append(images, Image{Data: gi.Image.ImageBytes, MIMEType: gi.Image.MIMEType})
	}

	written, err := WriteImages(dir, images)

	metrics.New(metrics.Namespace).
		Dimension("Model", g.model).
		Metric("ImageGenerationMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Metric("GeneratedImages", float64(written), metrics.UnitCount).
		Flush()

	log.Info().
		Int("images", written).
		Dur("duration", elapsed).
		Str("dir", dir).
		Msg("Image generation complete")

	return written, err
}

// Image is one generated image payload.
type Image struct {
	Data     []byte
	MIMEType string
}

// WriteImages saves images into dir as gen-<uuid><ext> and returns how many
// were written.
func WriteImages(dir string, images []Image) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create generation directory: %w", err)
	}

	written := 0
	for _, img := range images {
		name := "gen-" + uuid.NewString() + filehandler.ExtensionForMIME(img.MIMEType)
		if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write generated image: %w", err)
		}
		written++
	}
	return written, nil
}

// Placeholder is a Generator that writes nothing. The session uses it when
// no generator backend is available, so the text-prompt workflow degrades to
// "no images found".
type Placeholder struct{}

// Name implements Generator.
func (Placeholder) Name() string {
	return "placeholder"
}

// Generate implements Generator.
func (Placeholder) Generate(ctx context.Context, prompt, dir string) (int, error) {
	log.Warn().Msg("No image generator configured; nothing generated")
	return 0, nil
}
