package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storepilot/pkg/retry"
)

var (
	errTransient = errors.New("timeout")
	errFatal     = errors.New("unauthorized")
)

func isTransient(err error) bool {
	return errors.Is(err, errTransient)
}

func TestDo(t *testing.T) {
	rq := require.New(t)

	policy := retry.Policy{
		Attempts:        3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}

	testCases := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   error
	}{
		{
			name:      "Succeeds first time",
			wantCalls: 1,
		},
		{
			name:      "Recovers after transient failures",
			failures:  []error{errTransient, errTransient},
			wantCalls: 3,
		},
		{
			name:      "Gives up after three attempts",
			failures:  []error{errTransient, errTransient, errTransient, errTransient},
			wantCalls: 3,
			wantErr:   errTransient,
		},
		{
			name:      "Does not retry permanent errors",
			failures:  []error{errFatal},
			wantCalls: 1,
			wantErr:   errFatal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			calls := 0

			err := retry.Do(context.Background(), "test", policy, isTransient, func(context.Context) error {
				calls++

				if calls <= len(tc.failures) {
					return tc.failures[calls-1]
				}

				return nil
			})

			rq.Equal(tc.wantCalls, calls)

			if tc.wantErr != nil {
				rq.ErrorIs(err, tc.wantErr)
			} else {
				rq.NoError(err)
			}
		})
	}
}

func TestDoCancelled(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0

	err := retry.Do(ctx, "test", retry.DefaultPolicy(), isTransient, func(context.Context) error {
		calls++

		return errTransient
	})

	rq.Error(err)
	rq.LessOrEqual(calls, 1)
}
