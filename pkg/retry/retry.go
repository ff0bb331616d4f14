// Package retry retries transient provider failures with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
	"storepilot/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Policy struct {
	// Attempts counts the first call too.
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Attempts:        3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Classifier decides whether an error is worth another attempt.
type Classifier func(err error) bool

// Do calls fn until it succeeds, returns an error that isTransient rejects, the
// policy runs out of attempts, or ctx is done. The last error is returned.
func Do(ctx context.Context, operation string, policy Policy, isTransient Classifier, fn func(ctx context.Context) error) error {
	attempts := max(policy.Attempts, 1)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval
	b.MaxElapsedTime = 0

	attempt := 0

	err := backoff.RetryNotify(
		func() error {
			attempt++

			err := fn(ctx)
			if err == nil {
				return nil
			}

			if ctx.Err() != nil || !isTransient(err) {
				return backoff.Permanent(err)
			}

			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx),
		func(err error, next time.Duration) {
			metrics.ProviderRetries.WithLabelValues(operation).Inc()

			logger(ctx).Warn(
				"retrying",
				slog.String("operation", operation),
				slog.Int(logx.FieldAttempt, attempt),
				slog.Duration("backoff", next),
				logx.Error(err),
			)
		},
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", operation, err)
		}

		return err //nolint:wrapcheck
	}

	return nil
}
