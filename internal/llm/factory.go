package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with timeout
// and logging middleware. A failed call is reported once and never retried.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return wrap(base, cfg, eventRepo, log), nil
}

// wrap applies the middleware chain: caller → timeout → logging → base.
func wrap(base Provider, cfg Config, eventRepo store.EventRepo, log *zap.Logger) Provider {
	return WithTimeout(WithLogging(base, cfg.Provider, eventRepo, log), cfg.Timeout)
}

// NewProviderFromEnv resolves configuration from the environment and builds
// the provider. Returns ErrNotConfigured when no provider is available, in
// which case callers run offline.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo, log)
}
