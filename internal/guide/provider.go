package guide

import (
	"context"
	"fmt"

	"github.com/dgallion1/bidguide/internal/config"
)

// NewCompleter builds the completer selected by cfg.GeneratorProvider.
// The credential comes from cfg; nothing is read from the environment here.
func NewCompleter(ctx context.Context, cfg config.Config) (Completer, error) {
	switch cfg.GeneratorProvider {
	case config.ProviderGemini:
		return NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic api key is required")
		}
		return NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case config.ProviderOpenAI:
		return NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("generator provider %q not supported", cfg.GeneratorProvider)
	}
}
