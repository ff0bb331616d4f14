package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/pkg/errcodes"
)

func TestErrorKinds(t *testing.T) {
	rq := require.New(t)

	cause := errors.New("401 Unauthorized")

	testCases := []struct {
		name       string
		err        error
		auth       bool
		network    bool
		noResults  bool
		validation bool
	}{
		{
			name: "Authentication wrapped twice",
			err:  fmt.Errorf("pipeline.Run: %w", fmt.Errorf("storehost.Verify: %w", domain.NewAuthenticationError("storehost", cause))),
			auth: true,
		},
		{
			name:    "Network",
			err:     domain.NewNetworkError("serpapi", errors.New("i/o timeout")),
			network: true,
		},
		{
			name:      "No results",
			err:       domain.NewNoResultsError("no candidates"),
			noResults: true,
		},
		{
			name:       "Invalid margin",
			err:        domain.NewValidationError(errcodes.InvalidMargin, "margin must be in [0, 1)"),
			validation: true,
		},
		{
			name: "Plain error",
			err:  errors.New("boom"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.auth, domain.IsAuthentication(tc.err))
			rq.Equal(tc.network, domain.IsNetwork(tc.err))
			rq.Equal(tc.noResults, domain.IsNoResults(tc.err))
			rq.Equal(tc.validation, domain.IsValidation(tc.err))
		})
	}

	rq.ErrorIs(domain.NewAuthenticationError("storehost", cause), cause)
}
