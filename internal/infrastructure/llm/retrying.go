package llm

import (
	"context"

	"storepilot/internal/domain"
	"storepilot/pkg/retry"
)

// Retrying повторяет Generate при сетевых ошибках и 429/5xx.
type Retrying struct {
	Client
	policy retry.Policy
}

func WithRetry(client Client, policy retry.Policy) *Retrying {
	return &Retrying{Client: client, policy: policy}
}

func (r *Retrying) Generate(ctx context.Context, system, prompt string) (string, error) {
	var text string

	err := retry.Do(ctx, r.Provider()+".generate", r.policy, domain.IsNetwork, func(ctx context.Context) error {
		out, err := r.Client.Generate(ctx, system, prompt)
		if err != nil {
			return err //nolint:wrapcheck
		}

		text = out

		return nil
	})
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return text, nil
}
