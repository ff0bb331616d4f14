package negotiation

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/service/guard"
	"storepilot/pkg/contextx"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/logx"
	"storepilot/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

const systemPrompt = `You write short, polite B2B purchasing emails. Plain text only, no markdown, ` +
	`no placeholders. Sign the email with the sender name you are given.`

//nolint:gochecknoglobals
var (
	promptTemplate = template.Must(template.New("prompt").Parse(
		`Write an email to {{.Supplier}} asking for a quote on {{.Quantity}} units of "{{.Product}}". ` +
			`Propose a unit price of ${{printf "%.2f" .Price}} ({{.DiscountPct}}% below their list cost). ` +
			`Mention that we can commit to repeat orders if quality and lead time ({{.LeadDays}} days) hold. ` +
			`Sender: {{.Sender}}.`))

	fallbackTemplate = template.Must(template.New("fallback").Parse(
		`Hello {{.Supplier}},

We are interested in ordering {{.Quantity}} units of "{{.Product}}".
Would you accept ${{printf "%.2f" .Price}} per unit for this volume? With consistent quality and a lead time around {{.LeadDays}} days we would be glad to place repeat orders.

Best regards,
{{.Sender}}`))
)

type promptData struct {
	Supplier    string
	Product     string
	Quantity    int
	Price       float64
	DiscountPct int
	LeadDays    int
	Sender      string
}

type Drafter struct {
	generator   TextGenerator
	mailer      Mailer
	sender      string
	maxTokens   int
	retryPolicy retry.Policy
}

// NewDrafter: generator и mailer могут быть nil.
func NewDrafter(generator TextGenerator, mailer Mailer) *Drafter {
	return &Drafter{
		generator:   generator,
		mailer:      mailer,
		sender:      "StorePilot purchasing",
		maxTokens:   guard.MaxOutputTokens,
		retryPolicy: retry.DefaultPolicy(),
	}
}

func (d *Drafter) WithRetryPolicy(p retry.Policy) *Drafter {
	d.retryPolicy = p
	return d
}

func (d *Drafter) WithSender(name string) *Drafter {
	if name != "" {
		d.sender = name
	}

	return d
}

// Draft prepares an offer and the email text. Nothing is sent.
func (d *Drafter) Draft(ctx context.Context, supplier entity.Supplier, product entity.Product, quantity int) (entity.NegotiationResult, error) {
	unitCost := supplier.UnitCost
	if unitCost <= 0 {
		unitCost = product.Cost
	}

	if unitCost <= 0 {
		return entity.NegotiationResult{}, domain.NewValidationError(errcodes.ValidationError, "no unit cost for "+product.Name)
	}

	offer := MakeOffer(unitCost, quantity, supplier.MinOrderQuantity)

	data := promptData{
		Supplier:    supplier.Name,
		Product:     product.Name,
		Quantity:    offer.Quantity,
		Price:       offer.UnitPrice,
		DiscountPct: int(offer.Discount*100 + 0.5),
		LeadDays:    int(supplier.LeadTime.Hours() / 24),
		Sender:      d.sender,
	}

	body, err := d.compose(ctx, data)
	if err != nil {
		return entity.NegotiationResult{}, err
	}

	body, truncated := guard.LimitTokens(body, d.maxTokens)
	if truncated {
		logger(ctx).Warn("negotiation draft truncated", slog.String(logx.FieldSupplierID, supplier.ID))
	}

	return entity.NegotiationResult{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		ContactEmail: supplier.ContactEmail,
		ProductName:  product.Name,
		OfferedPrice: offer.UnitPrice,
		Discount:     offer.Discount,
		Quantity:     offer.Quantity,
		Subject:      fmt.Sprintf("Quote request: %d × %s", offer.Quantity, product.Name),
		Message:      body,
		Truncated:    truncated,
	}, nil
}

func (d *Drafter) compose(ctx context.Context, data promptData) (string, error) {
	if d.generator != nil {
		var prompt bytes.Buffer
		if err := promptTemplate.Execute(&prompt, data); err != nil {
			return "", fmt.Errorf("promptTemplate.Execute: %w", err)
		}

		text, err := d.generator.Generate(ctx, systemPrompt, prompt.String())

		switch {
		case err == nil && strings.TrimSpace(text) != "":
			return strings.TrimSpace(text), nil
		case domain.IsAuthentication(err):
			return "", fmt.Errorf("negotiation.Draft: %w", err)
		default:
			logger(ctx).Warn("generator failed, using template", logx.Error(err))
		}
	}

	var body bytes.Buffer
	if err := fallbackTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("fallbackTemplate.Execute: %w", err)
	}

	return body.String(), nil
}

// Send mails the draft only with explicit confirmation and never in dry-run.
func (d *Drafter) Send(ctx context.Context, draft entity.NegotiationResult, confirm bool) (entity.NegotiationResult, error) {
	if !confirm || draft.DryRun || draft.Sent {
		return draft, nil
	}

	if d.mailer == nil {
		return draft, domain.NewError(errcodes.Unauthenticated, "mailer is not configured")
	}

	if draft.ContactEmail == "" {
		return draft, domain.NewValidationError(errcodes.ValidationError, "supplier "+draft.SupplierID+" has no contact email")
	}

	err := retry.Do(ctx, "mailer.send", d.retryPolicy, domain.IsNetwork, func(ctx context.Context) error {
		return d.mailer.Send(ctx, draft.ContactEmail, draft.Subject, draft.Message)
	})
	if err != nil {
		return draft, fmt.Errorf("mailer.Send: %w", err)
	}

	draft.Sent = true

	logger(ctx).Info("negotiation sent", slog.String(logx.FieldSupplierID, draft.SupplierID))

	return draft, nil
}
