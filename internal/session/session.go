// Package session runs the interactive render loop around a resident model
// handle that is loaded once and reused for every render.
package session

import (
	"context"
	"time"

	"github.com/fpang/frame-render/internal/auth"
	"github.com/fpang/frame-render/internal/cli"
	"github.com/fpang/frame-render/internal/config"
	"github.com/fpang/frame-render/internal/generator"
	"github.com/fpang/frame-render/internal/narration"
	"github.com/fpang/frame-render/internal/resource"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// hardwareEncoder is the accelerated codec reported by the health check.
const hardwareEncoder = "h264_nvenc"

// Session owns the resident model handle and the backends built on it for
// the lifetime of the process.
type Session struct {
	Client       *genai.Client
	Generator    generator.Generator
	Narrator     narration.Narrator
	Capabilities []resource.Capability
	LoadDuration time.Duration
}

// LoadSession creates the model client and backends, then runs the
// capability health check. It never fails: a missing backend is replaced by
// a placeholder and reported as an unavailable capability.
func LoadSession(ctx context.Context, cfg *config.Config, probe resource.DeviceProbe) *Session {
	start := time.Now()
	s := &Session{
		Generator: generator.Placeholder{},
		Narrator:  narration.Placeholder{},
	}

	if cfg.Generator.Enabled || cfg.Narration.Enabled {
		client, err := cli.InitGeminiClient(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Model backend unavailable, using placeholders")
		} else {
			s.Client = client
		}
	}

	if s.Client != nil && cfg.Generator.Enabled {
		s.Generator = generator.NewGeminiGenerator(s.Client, cfg.Generator.Model, cfg.Generator.Count)
	}
	if s.Client != nil && cfg.Narration.Enabled {
		s.Narrator = narration.NewGeminiNarrator(s.Client, cfg.Narration.Model, cfg.Narration.Voice)
	}

	s.Capabilities = resource.ProbeCapabilities(ctx,
		resource.EncoderProbe(cfg.Encoder.Binary),
		resource.GPUProbe(probe),
		resource.HardwareEncoderProbe(cfg.Encoder.Binary, hardwareEncoder),
		s.generatorProbe(cfg),
	)
	s.LoadDuration = time.Since(start)

	log.Info().
		Str("generator", s.Generator.Name()).
		Bool("model_client", s.Client != nil).
		Dur("load_duration", s.LoadDuration).
		Msg("Session loaded")

	return s
}

// generatorProbe checks that the API key can reach the generator model.
func (s *Session) generatorProbe(cfg *config.Config) resource.Probe {
	return func(ctx context.Context) resource.Capability {
		c := resource.Capability{Name: "generator (" + cfg.Generator.Model + ")"}
		if !cfg.Generator.Enabled {
			c.Detail = "disabled in config"
			return c
		}
		if err := auth.ValidateModel(ctx, s.Client, cfg.Generator.Model); err != nil {
			c.Detail = err.Error()
			return c
		}
		c.Available = true
		return c
	}
}

// Name implements resource.Flusher.
func (s *Session) Name() string {
	return "model"
}

// Flush implements resource.Flusher. The remote client holds no local cache.
func (s *Session) Flush() error {
	log.Debug().Bool("model_client", s.Client != nil).Msg("Model handle flushed")
	return nil
}
