package llm

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"storepilot/internal/domain"
	"storepilot/internal/infrastructure/apiclient"
)

// DefaultOpenAIBaseURL это OpenAI-совместимый endpoint Gemini.
const (
	DefaultOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultOpenAIModel   = "gemini-2.0-flash"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAI talks to any chat-completions compatible API.
type OpenAI struct {
	client      *resty.Client
	key         string
	model       string
	temperature float32
	maxTokens   int
}

type OpenAIOptions struct {
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
	LogFieldMaxLen int
}

func NewOpenAI(opts OpenAIOptions) *OpenAI {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAI{
		client: apiclient.New(apiclient.Options{
			Provider:       ProviderOpenAI,
			BaseURL:        strings.TrimRight(baseURL, "/"),
			Timeout:        opts.Timeout,
			Auth:           &apiclient.Auth{Key: opts.APIKey, Header: "Authorization", Scheme: "Bearer "},
			LogFieldMaxLen: opts.LogFieldMaxLen,
		}),
		key:         opts.APIKey,
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

func (o *OpenAI) Provider() string { return ProviderOpenAI }

func (o *OpenAI) Configured() bool { return o.key != "" }

func (o *OpenAI) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}

	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	var out chatResponse

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       o.model,
			Messages:    messages,
			Temperature: o.temperature,
			MaxTokens:   o.maxTokens,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err := apiclient.Classify(ProviderOpenAI, resp, err); err != nil {
		return "", err //nolint:wrapcheck
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", domain.NewNoResultsError("openai: empty response")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (o *OpenAI) Verify(ctx context.Context) error {
	resp, err := o.client.R().SetContext(ctx).Get("/models")

	return apiclient.Classify(ProviderOpenAI, resp, err) //nolint:wrapcheck
}
