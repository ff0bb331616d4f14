// Package mailer отправляет письма поставщикам через SendGrid v3.
package mailer

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"storepilot/internal/domain"
	"storepilot/internal/infrastructure/apiclient"
	"storepilot/pkg/errcodes"
)

const (
	ProviderName = "sendgrid"

	DefaultBaseURL = "https://api.sendgrid.com"
)

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type message struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type SendGrid struct {
	client *resty.Client
	key    string
	from   address
}

type Options struct {
	BaseURL        string
	APIKey         string
	From           string
	FromName       string
	Timeout        time.Duration
	LogFieldMaxLen int
}

func NewSendGrid(opts Options) *SendGrid {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &SendGrid{
		client: apiclient.New(apiclient.Options{
			Provider:       ProviderName,
			BaseURL:        strings.TrimRight(baseURL, "/"),
			Timeout:        opts.Timeout,
			Auth:           &apiclient.Auth{Key: opts.APIKey, Header: "Authorization", Scheme: "Bearer "},
			LogFieldMaxLen: opts.LogFieldMaxLen,
		}),
		key:  opts.APIKey,
		from: address{Email: opts.From, Name: opts.FromName},
	}
}

func (s *SendGrid) Provider() string { return ProviderName }

func (s *SendGrid) Configured() bool { return s.key != "" && s.from.Email != "" }

// Send delivers a plain-text message. SendGrid answers 202 on acceptance.
func (s *SendGrid) Send(ctx context.Context, to, subject, body string) error {
	if !strings.Contains(to, "@") {
		return domain.NewValidationError(errcodes.ValidationError, "invalid recipient "+to)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(message{
			Personalizations: []personalization{{To: []address{{Email: to}}}},
			From:             s.from,
			Subject:          subject,
			Content:          []content{{Type: "text/plain", Value: body}},
		}).
		Post("/v3/mail/send")

	return apiclient.Classify(ProviderName, resp, err) //nolint:wrapcheck
}

func (s *SendGrid) Verify(ctx context.Context) error {
	resp, err := s.client.R().SetContext(ctx).Get("/v3/scopes")

	return apiclient.Classify(ProviderName, resp, err) //nolint:wrapcheck
}
