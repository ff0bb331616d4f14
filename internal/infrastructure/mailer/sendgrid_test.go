package mailer_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/infrastructure/mailer"
)

func TestSendGridSend(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		to     string
		status int
		check  func(error) bool
	}{
		{name: "Accepted", to: "sales@acme.test", status: http.StatusAccepted},
		{name: "Bad key", to: "sales@acme.test", status: http.StatusUnauthorized, check: domain.IsAuthentication},
		{name: "Outage", to: "sales@acme.test", status: http.StatusBadGateway, check: domain.IsNetwork},
		{name: "Bad recipient", to: "nobody", status: http.StatusAccepted, check: domain.IsValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var body, auth string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				body = string(b)
				auth = r.Header.Get("Authorization")

				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			m := mailer.NewSendGrid(mailer.Options{BaseURL: srv.URL, APIKey: "SG.key", From: "buyer@shop.test", FromName: "Buyer"})
			rq.True(m.Configured())

			err := m.Send(context.Background(), tc.to, "Order inquiry", "Hello")

			if tc.check != nil {
				rq.True(tc.check(err), err)
				return
			}

			rq.NoError(err)
			rq.Equal("Bearer SG.key", auth)
			rq.Contains(body, `"to":[{"email":"sales@acme.test"}]`)
			rq.Contains(body, `"from":{"email":"buyer@shop.test","name":"Buyer"}`)
			rq.Contains(body, `"subject":"Order inquiry"`)
		})
	}
}
