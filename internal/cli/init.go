package cli

import (
	"context"
	"fmt"

	"github.com/fpang/frame-render/internal/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// InitGeminiClient creates a Gemini client from the configured API key.
// The client is the resident model handle shared by the generator and
// narration backends for the whole session.
func InitGeminiClient(ctx context.Context) (*genai.Client, error) {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Info().Msg("Gemini client initialized")
	return client, nil
}
