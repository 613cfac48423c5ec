// Package ai selects and builds the text-completion provider
package ai

import (
	"fmt"
	"os"

	"github.com/alchemorsel/pantry/internal/infrastructure/ai/anthropic"
	"github.com/alchemorsel/pantry/internal/infrastructure/ai/ollama"
	"github.com/alchemorsel/pantry/internal/infrastructure/ai/openai"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"go.uber.org/zap"
)

// NewCompletionClient builds the client named by cfg.Provider. API keys
// fall back to the providers' conventional environment variables.
func NewCompletionClient(cfg config.AIConfig, logger *zap.Logger) (outbound.CompletionClient, error) {
	switch cfg.Provider {
	case "openai":
		key := cfg.OpenAIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewClient(openai.Config{
			APIKey:      key,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil

	case "ollama":
		return ollama.NewClient(ollama.Config{
			Host:        cfg.OllamaHost,
			Model:       cfg.OllamaModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil

	case "anthropic":
		key := cfg.AnthropicKey
		if key == "" {
			key = os.Getenv("ANTHROPIC_API_KEY")
		}
		return anthropic.NewClient(anthropic.Config{
			APIKey:      key,
			Model:       cfg.AnthropicModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil

	case "mock", "":
		logger.Named("ai").Info("Using mock completion client")
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
