package llm_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/infrastructure/llm"
	"storepilot/pkg/retry"
)

func TestExtractJSON(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		text string
		want string
	}{
		{name: "Fenced block", text: "Here you go:\n```json\n[{\"name\":\"Lick Mat\"}]\n```\nEnjoy", want: `[{"name":"Lick Mat"}]`},
		{name: "Bare fence", text: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "Raw array", text: `Ideas: ["a","b"] done`, want: `["a","b"]`},
		{name: "Raw object", text: `{"ok":true}`, want: `{"ok":true}`},
		{name: "Nothing", text: "no json here", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, llm.ExtractJSON(tc.text))
		})
	}
}

func TestOpenAIGenerate(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		key    string
		status int
		body   string
		want   string
		check  func(error) bool
	}{
		{
			name:   "Success",
			key:    "k",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"role":"assistant","content":" Hello supplier "}}]}`,
			want:   "Hello supplier",
		},
		{name: "Bad key", key: "k", status: http.StatusUnauthorized, body: `{}`, check: domain.IsAuthentication},
		{name: "Overloaded", key: "k", status: http.StatusServiceUnavailable, body: `{}`, check: domain.IsNetwork},
		{name: "Empty choices", key: "k", status: http.StatusOK, body: `{"choices":[]}`, check: domain.IsNoResults},
		{name: "Missing key", check: domain.IsAuthentication},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var gotPath, gotAuth string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				_, _ = io.Copy(io.Discard, r.Body)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := llm.NewOpenAI(llm.OpenAIOptions{APIKey: tc.key, BaseURL: srv.URL + "/v1beta/openai/"})

			got, err := client.Generate(context.Background(), "system", "prompt")

			if tc.check != nil {
				rq.True(tc.check(err), err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
			rq.Equal("/v1beta/openai/chat/completions", gotPath)
			rq.Equal("Bearer k", gotAuth)
		})
	}
}

func TestRetryingGenerate(t *testing.T) {
	rq := require.New(t)

	policy := retry.Policy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

	testCases := []struct {
		name      string
		statuses  []int
		wantCalls int32
		check     func(error) bool
	}{
		{name: "Overloaded once", statuses: []int{http.StatusServiceUnavailable, http.StatusOK}, wantCalls: 2},
		{name: "Rate limited twice", statuses: []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK}, wantCalls: 3},
		{
			name:      "Still down",
			statuses:  []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway},
			wantCalls: 3,
			check:     domain.IsNetwork,
		},
		{name: "Bad key not retried", statuses: []int{http.StatusUnauthorized}, wantCalls: 1, check: domain.IsAuthentication},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var calls atomic.Int32

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				_, _ = io.Copy(io.Discard, r.Body)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.statuses[min(int(n), len(tc.statuses))-1])
				_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello supplier"}}]}`))
			}))
			defer srv.Close()

			client := llm.WithRetry(llm.NewOpenAI(llm.OpenAIOptions{APIKey: "k", BaseURL: srv.URL}), policy)

			got, err := client.Generate(context.Background(), "system", "prompt")
			rq.Equal(tc.wantCalls, calls.Load())

			if tc.check != nil {
				rq.True(tc.check(err), err)
				return
			}

			rq.NoError(err)
			rq.Equal("Hello supplier", got)
		})
	}
}

func TestFactory(t *testing.T) {
	rq := require.New(t)

	client, err := llm.New(context.Background(), configLLM("none"), 0)
	rq.NoError(err)
	rq.Nil(client)

	client, err = llm.New(context.Background(), configLLM("anthropic"), 0)
	rq.NoError(err)
	rq.Equal("anthropic", client.Provider())
	rq.False(client.Configured())

	_, err = client.Generate(context.Background(), "", "hi")
	rq.True(domain.IsAuthentication(err))

	_, err = llm.New(context.Background(), configLLM("cohere"), 0)
	rq.Error(err)
}
