// Package llm содержит клиенты генерации текста: Gemini, Anthropic и любой
// OpenAI-совместимый endpoint.
package llm

import (
	"context"
	"errors"
	"net/http"

	"storepilot/internal/domain"
	"storepilot/pkg/contextx"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/httpx"
	"storepilot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Client is what the domain services see as TextGenerator, plus the
// credential check used by the preflight.
type Client interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	Provider() string
	Configured() bool
	Verify(ctx context.Context) error
}

func loggingHTTPClient(provider string, logFieldMaxLen int) *http.Client {
	return &http.Client{
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithProvider(provider),
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(logFieldMaxLen),
		),
	}
}

// classifyStatus maps an SDK error carrying an HTTP status onto domain kinds.
func classifyStatus(provider string, status int, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewAuthenticationError(provider, err)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError || status == 0:
		return domain.NewNetworkError(provider, err)
	default:
		return domain.WrapError(err, errcodes.UpstreamRejected, provider+": request rejected")
	}
}

func missingKey(provider string) error {
	return domain.NewAuthenticationError(provider, httpx.ErrMissingCredentials)
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
