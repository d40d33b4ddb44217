package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Generator providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Port string

	// Auth (optional; empty disables bearer auth)
	APIKey string

	// Guide generation
	GeneratorProvider string
	GenerateTimeout   time.Duration

	GeminiAPIKey string
	GeminiModel  string

	AnthropicAPIKey string
	AnthropicModel  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Generation worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Wizard sessions
	SessionTTL time.Duration

	// Question list override (YAML)
	QuestionsFile string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BIDGUIDE_API_KEY"),

		GeneratorProvider: strings.ToLower(envOr("GENERATOR_PROVIDER", ProviderGemini)),
		GenerateTimeout:   envDuration("GENERATE_TIMEOUT", 3*time.Minute),

		GeminiAPIKey: envOr("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SessionTTL: envDuration("SESSION_TTL", 2*time.Hour),

		QuestionsFile: os.Getenv("QUESTIONS_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 3 * time.Minute
	}

	return cfg
}

// Validate checks that the selected generator has its credential.
func (c Config) Validate() error {
	switch c.GeneratorProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY (or API_KEY) is required")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
		if c.OpenAIModel == "" {
			return fmt.Errorf("OPENAI_MODEL is required")
		}
	default:
		return fmt.Errorf("unknown GENERATOR_PROVIDER %q", c.GeneratorProvider)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
