package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"storepilot/internal/domain"
)

const defaultAnthropicModel = anthropic.ModelClaudeHaiku4_5

type Anthropic struct {
	client      anthropic.Client
	key         string
	model       anthropic.Model
	temperature float64
	maxTokens   int64
}

type AnthropicOptions struct {
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
	LogFieldMaxLen int
}

func NewAnthropic(opts AnthropicOptions) *Anthropic {
	httpClient := loggingHTTPClient(ProviderAnthropic, opts.LogFieldMaxLen)
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		// ретраи делает pkg/retry
		option.WithMaxRetries(0),
	}

	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}

	a := &Anthropic{
		client:      anthropic.NewClient(requestOpts...),
		key:         opts.APIKey,
		model:       anthropic.Model(opts.Model),
		temperature: float64(opts.Temperature),
		maxTokens:   int64(opts.MaxTokens),
	}

	if a.model == "" {
		a.model = defaultAnthropicModel
	}

	if a.maxTokens <= 0 {
		a.maxTokens = 1024
	}

	return a
}

func (a *Anthropic) Provider() string { return ProviderAnthropic }

func (a *Anthropic) Configured() bool { return a.key != "" }

func (a *Anthropic) Generate(ctx context.Context, system, prompt string) (string, error) {
	if !a.Configured() {
		return "", missingKey(ProviderAnthropic)
	}

	params := anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(a.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", a.classify(err)
	}

	var b strings.Builder

	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", domain.NewNoResultsError("anthropic: empty response")
	}

	return text, nil
}

func (a *Anthropic) Verify(ctx context.Context) error {
	if !a.Configured() {
		return missingKey(ProviderAnthropic)
	}

	if _, err := a.client.Models.Get(ctx, string(a.model), anthropic.ModelGetParams{}); err != nil {
		return a.classify(err)
	}

	return nil
}

func (a *Anthropic) classify(err error) error {
	if isCanceled(err) {
		return fmt.Errorf("anthropic: %w", err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(ProviderAnthropic, apiErr.StatusCode, err)
	}

	return domain.NewNetworkError(ProviderAnthropic, err)
}
