package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingCredentials is returned before any request leaves the process
// when a provider has no API key configured.
var ErrMissingCredentials = errors.New("missing credentials")

type authenticator interface {
	Authenticate(context.Context) error
	Token() string
}

// AuthRoundTripper puts the provider credential into a request header.
// On 401 it re-authenticates once and replays the request when the body can
// be rewound.
type AuthRoundTripper struct {
	next          http.RoundTripper
	authenticator authenticator
	header        string
	scheme        string
}

func NewAuthHeaderRoundTripper(
	next http.RoundTripper,
	authenticator authenticator,
	header string,
	scheme string,
) AuthRoundTripper {
	return AuthRoundTripper{
		next:          next,
		authenticator: authenticator,
		header:        header,
		scheme:        scheme,
	}
}

func (rt AuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.authenticator.Token() == "" {
		if err := rt.authenticator.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
		}
	}

	req = req.Clone(req.Context())
	rt.setAuthorizationHeader(req)

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	if resp.StatusCode != http.StatusUnauthorized || (req.Body != nil && req.Body != http.NoBody && req.GetBody == nil) {
		return resp, nil
	}

	resp.Body.Close()

	if err = rt.authenticator.Authenticate(req.Context()); err != nil {
		return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
	}

	if req.GetBody != nil {
		if req.Body, err = req.GetBody(); err != nil {
			return nil, fmt.Errorf("req.GetBody: %w", err)
		}
	}

	rt.setAuthorizationHeader(req)

	return rt.next.RoundTrip(req) //nolint:wrapcheck
}

func (rt AuthRoundTripper) setAuthorizationHeader(req *http.Request) {
	req.Header.Set(rt.header, rt.scheme+rt.authenticator.Token())
}

// StaticKey authenticates with a fixed API key taken from configuration.
type StaticKey struct {
	Provider string
	Key      string
}

func (s StaticKey) Authenticate(context.Context) error {
	if s.Key == "" {
		return fmt.Errorf("%s: %w", s.Provider, ErrMissingCredentials)
	}

	return nil
}

func (s StaticKey) Token() string {
	return s.Key
}
