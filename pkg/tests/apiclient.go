// Package tests holds helpers for HTTP API tests.
package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIClient calls the storepilot HTTP API and decodes either the success or
// the error body.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logf       func(format string, args ...any)
}

func NewAPIClient(
	baseURL string,
	httpClient *http.Client,
) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// WithLogf dumps every exchange through logf, usually t.Logf.
func (a APIClient) WithLogf(logf func(format string, args ...any)) APIClient {
	a.logf = logf
	return a
}

func (a APIClient) Get(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.do(ctx, http.MethodGet, endpoint, headers, http.NoBody, dest, errDest)
}

func (a APIClient) Post(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	request any,
	dest any,
	errDest any,
) (*http.Response, error) {
	b, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return a.do(ctx, http.MethodPost, endpoint, headers, bytes.NewReader(b), dest, errDest)
}

// PostJSON sends a raw body, for payloads a struct cannot express.
func (a APIClient) PostJSON(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	requestJSON string,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.do(ctx, http.MethodPost, endpoint, headers, strings.NewReader(requestJSON), dest, errDest)
}

func (a APIClient) do(
	ctx context.Context,
	method string,
	endpoint string,
	headers http.Header,
	payload io.Reader,
	dest any,
	errDest any,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if method == http.MethodPost && headers.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if a.logf != nil {
		if dump, err := httputil.DumpResponse(resp, true); err == nil {
			a.logf("%s %s\n%s", method, endpoint, dump)
		}
	}

	if err := decode(resp, dest, errDest); err != nil {
		return nil, err
	}

	return resp, nil
}

func decode(r *http.Response, dest, errDest any) error {
	success := r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices

	switch {
	case success && dest != nil:
		if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
			return fmt.Errorf("json.Decode(success destination): %w", err)
		}
	case !success && errDest != nil:
		if err := json.NewDecoder(r.Body).Decode(errDest); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("json.Decode(err destination): %w", err)
		}
	}

	return nil
}
