package supplier

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/contextx"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/logx"
	"storepilot/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultMinTrust    = 0.5
	defaultConcurrency = 4
	defaultCallTimeout = 10 * time.Second
	hoursPerDay        = 24
)

// Directory это внешний каталог поставщиков.
type Directory interface {
	Search(ctx context.Context, product entity.Product) ([]string, error)
	Profile(ctx context.Context, supplierID string) (entity.SupplierProfile, error)
}

type Finder struct {
	directory   Directory
	minTrust    float64
	concurrency int
	callTimeout time.Duration
	limiter     *rate.Limiter
	retryPolicy retry.Policy
}

func NewFinder(directory Directory) *Finder {
	return &Finder{
		directory:   directory,
		minTrust:    defaultMinTrust,
		concurrency: defaultConcurrency,
		callTimeout: defaultCallTimeout,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		retryPolicy: retry.DefaultPolicy(),
	}
}

func (f *Finder) WithMinTrust(v float64) *Finder {
	f.minTrust = v
	return f
}

func (f *Finder) WithConcurrency(n int) *Finder {
	if n > 0 {
		f.concurrency = n
	}

	return f
}

func (f *Finder) WithCallTimeout(d time.Duration) *Finder {
	if d > 0 {
		f.callTimeout = d
	}

	return f
}

func (f *Finder) WithRateLimit(perSecond float64, burst int) *Finder {
	if perSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}

	return f
}

func (f *Finder) WithRetryPolicy(p retry.Policy) *Finder {
	f.retryPolicy = p
	return f
}

type profileResult struct {
	supplier entity.Supplier
	trusted  bool
	failure  *entity.SupplierFailure
}

// Find returns up to limit trusted suppliers sorted by trust desc. A supplier
// whose profile cannot be fetched ends up in the failure list instead and the
// batch carries on; authentication errors abort the whole call.
func (f *Finder) Find(ctx context.Context, product entity.Product, limit int) ([]entity.Supplier, []entity.SupplierFailure, error) {
	var ids []string

	err := f.call(ctx, "suppliers.Search", func(ctx context.Context) error {
		var err error

		ids, err = f.directory.Search(ctx, product)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return nil, nil, fmt.Errorf("supplier.Find(%s): %w", product.Name, err)
	}

	if len(ids) == 0 {
		return nil, nil, domain.NewNoResultsError("no suppliers for " + product.Name)
	}

	results := make([]profileResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			res, err := f.fetch(gctx, product, id)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("supplier.Find(%s): %w", product.Name, err)
	}

	var (
		suppliers []entity.Supplier
		failures  []entity.SupplierFailure
	)

	for _, res := range results {
		switch {
		case res.failure != nil:
			failures = append(failures, *res.failure)
		case res.trusted:
			suppliers = append(suppliers, res.supplier)
		}
	}

	slices.SortStableFunc(suppliers, func(a, b entity.Supplier) int {
		if c := cmp.Compare(b.TrustScore, a.TrustScore); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	if limit > 0 && len(suppliers) > limit {
		suppliers = suppliers[:limit]
	}

	logger(ctx).Info("suppliers found",
		slog.String(logx.FieldProduct, product.Name),
		slog.Int("trusted", len(suppliers)),
		slog.Int("failed", len(failures)),
	)

	return suppliers, failures, nil
}

func (f *Finder) fetch(ctx context.Context, product entity.Product, id string) (profileResult, error) {
	var profile entity.SupplierProfile

	err := f.call(ctx, "suppliers.Profile", func(ctx context.Context) error {
		var err error

		profile, err = f.directory.Profile(ctx, id)

		return err //nolint:wrapcheck
	})

	switch {
	case err == nil:
	case domain.IsAuthentication(err):
		return profileResult{}, err
	case errors.Is(err, context.Canceled):
		return profileResult{}, err
	default:
		logger(ctx).Warn("supplier profile failed", slog.String(logx.FieldSupplierID, id), logx.Error(err))

		code, ok := domain.GetCode(err)
		if !ok {
			code = errcodes.NetworkFailure
		}

		return profileResult{failure: &entity.SupplierFailure{
			SupplierID:  id,
			ProductName: product.Name,
			Kind:        code,
			Message:     err.Error(),
		}}, nil
	}

	trust := TrustScore(profile)

	return profileResult{
		trusted: trust >= f.minTrust,
		supplier: entity.Supplier{
			ID:               profile.ID,
			Name:             profile.Name,
			ContactEmail:     profile.ContactEmail,
			MinOrderQuantity: profile.MinOrderQuantity,
			LeadTime:         time.Duration(profile.LeadTimeDays) * hoursPerDay * time.Hour,
			TrustScore:       trust,
			ProductName:      product.Name,
			UnitCost:         profile.UnitCost,
		},
	}, nil
}

// call оборачивает вызов каталога: лимит, таймаут и ретраи сетевых ошибок.
func (f *Finder) call(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, operation, f.retryPolicy, domain.IsNetwork, func(ctx context.Context) error { //nolint:wrapcheck
		if err := f.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("limiter.Wait: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, f.callTimeout)
		defer cancel()

		err := fn(ctx)
		if errors.Is(err, context.DeadlineExceeded) && !domain.IsAppError(err) {
			return domain.NewNetworkError("suppliers", err)
		}

		return err
	})
}
