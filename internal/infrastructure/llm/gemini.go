package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"storepilot/internal/domain"
)

const defaultGeminiModel = "gemini-2.0-flash"

type Gemini struct {
	client      *genai.Client
	key         string
	model       string
	temperature float32
	maxTokens   int32
}

type GeminiOptions struct {
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
	LogFieldMaxLen int
}

func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	g := &Gemini{
		key:         opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   int32(opts.MaxTokens), //nolint:gosec
	}

	if g.model == "" {
		g.model = defaultGeminiModel
	}

	if opts.APIKey == "" {
		// клиент без ключа не создаём, Configured вернёт false
		return g, nil
	}

	httpClient := loggingHTTPClient(ProviderGemini, opts.LogFieldMaxLen)
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	g.client = client

	return g, nil
}

func (g *Gemini) Provider() string { return ProviderGemini }

func (g *Gemini) Configured() bool { return g.key != "" }

func (g *Gemini) Generate(ctx context.Context, system, prompt string) (string, error) {
	if g.client == nil {
		return "", missingKey(ProviderGemini)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}

	if g.maxTokens > 0 {
		config.MaxOutputTokens = g.maxTokens
	}

	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", g.classify(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", domain.NewNoResultsError("gemini: empty response")
	}

	return text, nil
}

func (g *Gemini) Verify(ctx context.Context) error {
	if g.client == nil {
		return missingKey(ProviderGemini)
	}

	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return g.classify(err)
	}

	return nil
}

func (g *Gemini) classify(err error) error {
	if isCanceled(err) {
		return fmt.Errorf("gemini: %w", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(ProviderGemini, apiErr.Code, err)
	}

	return domain.NewNetworkError(ProviderGemini, err)
}
