package guide

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/bidguide/internal/config"
)

func TestNewCompleter_SelectsProvider(t *testing.T) {
	c, err := NewCompleter(context.Background(), config.Config{
		GeneratorProvider: config.ProviderAnthropic,
		AnthropicAPIKey:   "k",
		AnthropicModel:    "claude-x",
	})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicCompleter{}, c)
	assert.Equal(t, "claude-x", c.Model())

	c, err = NewCompleter(context.Background(), config.Config{
		GeneratorProvider: config.ProviderOpenAI,
		OpenAIAPIKey:      "k",
		OpenAIModel:       "gpt-test",
		OpenAIBaseURL:     "http://localhost:9999/v1",
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompleter{}, c)
	assert.Equal(t, "gpt-test", c.Model())
}

func TestNewCompleter_MissingCredential(t *testing.T) {
	for _, p := range []string{config.ProviderGemini, config.ProviderAnthropic, config.ProviderOpenAI} {
		_, err := NewCompleter(context.Background(), config.Config{GeneratorProvider: p})
		assert.Error(t, err, p)
	}
}

func TestNewCompleter_UnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), config.Config{GeneratorProvider: "palm"})
	assert.Error(t, err)
}
