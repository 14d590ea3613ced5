package llm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
)

// ErrNotConfigured is returned when no provider is selected and no
// standard API key is present in the environment.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `env:"INTERVIEWER_LLM_PROVIDER"`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single provider call. Failed calls are not retried;
	// callers fall back to offline questions and grading instead.
	Timeout time.Duration `env:"INTERVIEWER_LLM_TIMEOUT"`

	// Temperature is the default sampling temperature for generation.
	Temperature float64 `env:"INTERVIEWER_LLM_TEMPERATURE"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `env:"INTERVIEWER_ANTHROPIC_API_KEY"`
	Model  string `env:"INTERVIEWER_ANTHROPIC_MODEL"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"INTERVIEWER_OPENAI_API_KEY"`
	Model   string `env:"INTERVIEWER_OPENAI_MODEL"`    // Default: "gpt-4o-mini"
	BaseURL string `env:"INTERVIEWER_OPENAI_BASE_URL"` // Optional. OpenAI-compatible endpoints.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `env:"INTERVIEWER_GEMINI_API_KEY"`
	Model  string `env:"INTERVIEWER_GEMINI_MODEL"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"INTERVIEWER_OPENROUTER_API_KEY"`
	Model   string `env:"INTERVIEWER_OPENROUTER_MODEL"`
	BaseURL string `env:"INTERVIEWER_OPENROUTER_BASE_URL"`

	// Referrer and Title identify the app on openrouter.ai rankings.
	Referrer string `env:"INTERVIEWER_OPENROUTER_REFERRER"`
	Title    string `env:"INTERVIEWER_OPENROUTER_TITLE"`
}

// MaxTimeout is the exclusive upper bound for Timeout. An interview turn
// must never wait on the network for ten seconds or more.
const MaxTimeout = 10 * time.Second

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
			Title: "interviewer",
		},
		Timeout:     5 * time.Second,
		Temperature: 0.7,
	}
}

// ConfigFromEnv builds a Config from INTERVIEWER_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	return configFromEnv(nil)
}

// configFromEnv parses from environ when non-nil, else from the process env.
func configFromEnv(environ map[string]string) (Config, error) {
	cfg := DefaultConfig()
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse LLM env config: %w", err)
	}
	return cfg, nil
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if k := os.Getenv(name); k != "" {
			cfg.Provider = "gemini"
			cfg.Gemini.APIKey = k
			return cfg, true
		}
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// ResolveConfig returns the explicit INTERVIEWER_* configuration when a
// provider is selected, otherwise the discovered one.
func ResolveConfig() (Config, error) {
	if os.Getenv("INTERVIEWER_LLM_PROVIDER") != "" {
		return ConfigFromEnv()
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, nil
	}
	return Config{}, ErrNotConfigured
}

// Validate checks that the selected provider has its required API key set
// and that the call timeout stays under MaxTimeout.
func (c Config) Validate() error {
	if c.Timeout >= MaxTimeout {
		return fmt.Errorf("INTERVIEWER_LLM_TIMEOUT must be under %s, got %s", MaxTimeout, c.Timeout)
	}
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("INTERVIEWER_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("INTERVIEWER_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("INTERVIEWER_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("INTERVIEWER_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
