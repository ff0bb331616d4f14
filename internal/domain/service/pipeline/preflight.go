package pipeline

import (
	"context"
	"errors"
	"fmt"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
)

var errMissingKey = errors.New("missing credentials")

// Verifier is implemented by every keyed provider client.
type Verifier interface {
	Provider() string
	Configured() bool
	Verify(ctx context.Context) error
}

// Preflight проверяет ключи до начала работы: сначала все локально, затем
// ключ хостинга магазина по сети, раньше любого другого провайдера.
type Preflight struct {
	storeHost Verifier
	required  []Verifier
	mailer    Verifier
}

func NewPreflight(storeHost Verifier, required ...Verifier) *Preflight {
	return &Preflight{storeHost: storeHost, required: required}
}

// WithMailer registers the mail provider, required only when a run sends email.
func (p *Preflight) WithMailer(mailer Verifier) *Preflight {
	p.mailer = mailer
	return p
}

func (p *Preflight) Check(ctx context.Context, req entity.RunRequest) error {
	verifiers := append([]Verifier{p.storeHost}, p.required...)
	if req.SendEmails && !req.DryRun && p.mailer != nil {
		verifiers = append(verifiers, p.mailer)
	}

	for _, v := range verifiers {
		if v == nil {
			continue
		}

		if !v.Configured() {
			return domain.NewAuthenticationError(v.Provider(), errMissingKey)
		}
	}

	if p.storeHost == nil {
		return nil
	}

	if err := p.storeHost.Verify(ctx); err != nil {
		return fmt.Errorf("preflight(%s): %w", p.storeHost.Provider(), err)
	}

	return nil
}
