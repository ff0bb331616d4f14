package compliance

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/service/guard"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

const systemPrompt = `You draft plain-language policy pages for small online stores. ` +
	`Plain text with short headed sections. State that the text is a draft that needs legal review.`

//nolint:gochecknoglobals
var (
	titles = map[entity.PolicyKind]string{
		entity.PolicyPrivacy:  "Privacy Policy",
		entity.PolicyRefund:   "Refund Policy",
		entity.PolicyTerms:    "Terms of Service",
		entity.PolicyShipping: "Shipping Policy",
	}

	fallback = template.Must(template.New("policy").Parse(`{{.Title}} for {{.Store}}

DRAFT: this document was generated automatically and must be reviewed by a qualified lawyer before publishing.

{{if eq .Kind "privacy"}}We collect the contact and delivery details you give us at checkout and use them only to fulfil and support your order. We do not sell personal data. Contact {{.Email}} to access or delete your data.
{{else if eq .Kind "refund"}}Unused items in original packaging can be returned within 30 days of delivery for a full refund. Refunds are issued to the original payment method within 10 business days after we receive the item.
{{else if eq .Kind "terms"}}By placing an order you agree to these terms. Prices are listed in USD and may change without notice. Products include: {{.Products}}.
{{else}}Orders ship within {{.LeadDays}} business days. Delivery times depend on the carrier and destination. Tracking numbers are emailed once the order ships.
{{end}}`))
)

type templateData struct {
	Kind     entity.PolicyKind
	Title    string
	Store    string
	Email    string
	Products string
	LeadDays int
}

type Drafter struct {
	generator    TextGenerator
	contactEmail string
}

func NewDrafter(generator TextGenerator) *Drafter {
	return &Drafter{generator: generator}
}

func (d *Drafter) WithContactEmail(email string) *Drafter {
	d.contactEmail = email
	return d
}

// Draft generates all policy kinds in parallel. Returned documents keep the
// canonical kind order.
func (d *Drafter) Draft(ctx context.Context, store entity.StoreRecord, products []entity.Product, leadDays int) ([]entity.PolicyDocument, error) {
	kinds := entity.PolicyKinds()
	docs := make([]entity.PolicyDocument, len(kinds))

	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}

	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range kinds {
		g.Go(func() error {
			data := templateData{
				Kind:     kind,
				Title:    titles[kind],
				Store:    store.Name,
				Email:    d.contactEmail,
				Products: strings.Join(names, ", "),
				LeadDays: max(leadDays, 1),
			}

			body, err := d.body(gctx, data)
			if err != nil {
				return err
			}

			docs[i] = entity.PolicyDocument{Kind: kind, Title: data.Title, Body: body}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compliance.Draft: %w", err)
	}

	return docs, nil
}

func (d *Drafter) body(ctx context.Context, data templateData) (string, error) {
	if d.generator != nil {
		prompt := fmt.Sprintf("Write the %s for the online store %q selling: %s. Contact email: %s. Typical dispatch time: %d days.",
			data.Title, data.Store, data.Products, data.Email, data.LeadDays)

		text, err := d.generator.Generate(ctx, systemPrompt, prompt)

		switch {
		case err == nil && strings.TrimSpace(text) != "":
			text, _ = guard.LimitTokens(strings.TrimSpace(text), guard.MaxOutputTokens)
			return text, nil
		case domain.IsAuthentication(err):
			return "", err
		case err != nil:
			logger(ctx).Warn("policy generation failed, using template",
				slog.String("kind", string(data.Kind)),
				logx.Error(err),
			)
		}
	}

	var buf bytes.Buffer
	if err := fallback.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("fallback.Execute: %w", err)
	}

	return buf.String(), nil
}
