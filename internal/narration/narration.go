// Package narration synthesizes a narration track for a render.
package narration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fpang/frame-render/internal/metrics"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Narrator writes speech for text to path as a WAV file.
type Narrator interface {
	Narrate(ctx context.Context, text, path string) error
}

// GeminiNarrator synthesizes speech with a Gemini TTS model.
type GeminiNarrator struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiNarrator creates a narrator speaking with the prebuilt voice.
func NewGeminiNarrator(client *genai.Client, model, voice string) *GeminiNarrator {
	return &GeminiNarrator{client: client, model: model, voice: voice}
}

// Narrate implements Narrator.
func (n *GeminiNarrator) Narrate(ctx context.Context, text, path string) error {
	log.Info().
		Str("model", n.model).
		Str("voice", n.voice).
		Int("text_length", len(text)).
		Msg("Generating narration")

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: n.voice},
			},
		},
	}

	start := time.Now()
	resp, err := n.client.Models.GenerateContent(ctx, n.model, genai.Text(text), config)
	elapsed := time.Since(start)
	if err != nil {
		metrics.New(metrics.Namespace).
			Metric("NarrationMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
			Count("NarrationErrors").
			Flush()
		return fmt.Errorf("narration request failed: %w", err)
	}

	pcm := audioData(resp)
	if len(pcm) == 0 {
		return fmt.Errorf("narration response contained no audio")
	}

	if err := writeFile(path, func(f *os.File) error { return WriteWAV(f, pcm) }); err != nil {
		return err
	}

	metrics.New(metrics.Namespace).
		Metric("NarrationMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Metric("NarrationBytes", float64(len(pcm)), metrics.UnitBytes).
		Flush()

	log.Info().
		Str("path", path).
		Dur("duration", elapsed).
		Msg("Narration saved")
	return nil
}

// audioData concatenates every inline audio part of the first candidate.
func audioData(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var pcm []byte
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	return pcm
}

// Placeholder writes a WAV file with a header and no samples. The encoder
// accepts it as an audio input, so the render still runs with -shortest.
type Placeholder struct{}

// Narrate implements Narrator.
func (Placeholder) Narrate(ctx context.Context, text, path string) error {
	log.Warn().Msg("No narration backend configured; writing silent audio file")
	return writeFile(path, func(f *os.File) error { return WriteWAV(f, nil) })
}

func writeFile(path string, fill func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create narration directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create narration file: %w", err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write narration: %w", err)
	}
	return f.Close()
}
