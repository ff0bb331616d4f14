package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storepilot/internal/config"
)

// New builds the configured client. An empty provider returns nil: callers
// fall back to templates.
func New(ctx context.Context, cfg config.LLM, logFieldMaxLen int) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	var (
		client Client
		err    error
	)

	switch provider {
	case "", "none":
		return nil, nil //nolint:nilnil
	case ProviderGemini:
		client, err = NewGemini(ctx, GeminiOptions{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			Timeout:        cfg.Timeout,
			LogFieldMaxLen: logFieldMaxLen,
		})
	case ProviderAnthropic:
		client = NewAnthropic(AnthropicOptions{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			Timeout:        cfg.Timeout,
			LogFieldMaxLen: logFieldMaxLen,
		})
	case ProviderOpenAI:
		client = NewOpenAI(OpenAIOptions{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			Timeout:        cfg.Timeout,
			LogFieldMaxLen: logFieldMaxLen,
		})
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	logger(ctx).Info("text generator configured",
		slog.String("provider", client.Provider()),
		slog.Bool("configured", client.Configured()),
		slog.Duration("timeout", cfg.Timeout.Round(time.Second)),
	)

	return client, nil
}
