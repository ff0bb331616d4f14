// Package apiclient собирает resty-клиенты провайдеров поверх httpx и
// переводит ответы в доменные ошибки.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"storepilot/internal/domain"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/httpx"
	"storepilot/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const maxErrorBody = 512

type Auth struct {
	Key    string
	Header string
	// Scheme is prepended to the key, e.g. "Bearer ".
	Scheme string
}

type Options struct {
	Provider       string
	BaseURL        string
	Timeout        time.Duration
	Auth           *Auth
	Transport      http.RoundTripper
	LogFieldMaxLen int
}

// New returns a resty client whose transport logs (with secrets masked),
// records provider metrics and injects the API key. Retries are done by the
// callers through pkg/retry, never by resty.
func New(opts Options) *resty.Client {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	transport = httpx.NewLoggingRoundTripper(
		transport,
		httpx.WithProvider(opts.Provider),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(opts.LogFieldMaxLen),
	)

	if opts.Auth != nil {
		transport = httpx.NewAuthHeaderRoundTripper(
			transport,
			httpx.StaticKey{Provider: opts.Provider, Key: opts.Auth.Key},
			opts.Auth.Header,
			opts.Auth.Scheme,
		)
	}

	client := resty.NewWithClient(&http.Client{Transport: transport}).
		SetBaseURL(opts.BaseURL).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "storepilot")

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client
}

// Classify maps a transport error or an HTTP status onto the domain error kinds.
func Classify(provider string, resp *resty.Response, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, httpx.ErrMissingCredentials):
			return domain.NewAuthenticationError(provider, err)
		case errors.Is(err, context.Canceled):
			return fmt.Errorf("%s: %w", provider, err)
		default:
			return domain.NewNetworkError(provider, err)
		}
	}

	status := resp.StatusCode()

	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewAuthenticationError(provider, statusError(resp))
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= http.StatusInternalServerError:
		return domain.NewNetworkError(provider, statusError(resp))
	case status == http.StatusNotFound:
		return domain.WrapError(statusError(resp), errcodes.NotFound, provider+": not found")
	default:
		return domain.WrapError(statusError(resp), errcodes.UpstreamRejected, provider+": request rejected")
	}
}

func statusError(resp *resty.Response) error {
	body := resp.Body()
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), body)
}

// Malformed is returned when a 2xx body cannot be decoded into the expected shape.
func Malformed(provider string, err error) error {
	return domain.WrapError(err, errcodes.MalformedResponse, provider+": malformed response")
}
