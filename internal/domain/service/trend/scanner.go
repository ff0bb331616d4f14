package trend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
	"storepilot/pkg/contextx"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/logx"
	"storepilot/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultConcurrency = 4
	defaultCallTimeout = 15 * time.Second
)

// ProductSource отдаёт кандидатов для категории.
type ProductSource interface {
	Candidates(ctx context.Context, category string) ([]entity.Candidate, error)
}

// Provider возвращает ряд интереса 0..100 для кандидата.
type Provider interface {
	Name() string
	Interest(ctx context.Context, candidate entity.Candidate) ([]float64, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]entity.Product, bool)
	Set(ctx context.Context, key string, products []entity.Product)
}

type Scanner struct {
	source      ProductSource
	providers   []Provider
	cache       Cache
	limiter     *rate.Limiter
	concurrency int
	callTimeout time.Duration
	retryPolicy retry.Policy
}

func NewScanner(source ProductSource, providers ...Provider) *Scanner {
	return &Scanner{
		source:      source,
		providers:   providers,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		concurrency: defaultConcurrency,
		callTimeout: defaultCallTimeout,
		retryPolicy: retry.DefaultPolicy(),
	}
}

func (s *Scanner) WithCache(c Cache) *Scanner {
	s.cache = c
	return s
}

func (s *Scanner) WithRateLimit(perSecond float64, burst int) *Scanner {
	if perSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}

	return s
}

func (s *Scanner) WithConcurrency(n int) *Scanner {
	if n > 0 {
		s.concurrency = n
	}

	return s
}

func (s *Scanner) WithCallTimeout(d time.Duration) *Scanner {
	if d > 0 {
		s.callTimeout = d
	}

	return s
}

func (s *Scanner) WithRetryPolicy(p retry.Policy) *Scanner {
	s.retryPolicy = p
	return s
}

// Scan returns the products of all categories scored and sorted. Errors:
// validation when no category is given, NoResults when no candidate exists,
// Network when every provider lookup failed, Authentication as-is.
func (s *Scanner) Scan(ctx context.Context, categories []string) ([]entity.Product, error) {
	categories = lo.Uniq(lo.FilterMap(categories, func(c string, _ int) (string, bool) {
		c = strings.ToLower(strings.TrimSpace(c))
		return c, c != ""
	}))

	if len(categories) == 0 {
		return nil, domain.NewValidationError(errcodes.ValidationError, "at least one category is required")
	}

	var all []entity.Product

	for _, category := range categories {
		products, err := s.scanCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("trend.Scan(%s): %w", category, err)
		}

		all = append(all, products...)
	}

	all = lo.UniqBy(all, func(p entity.Product) string { return strings.ToLower(p.Name) })

	if len(all) == 0 {
		return nil, domain.NewNoResultsError("no trending candidates for " + strings.Join(categories, ", "))
	}

	Sort(all)

	return all, nil
}

func (s *Scanner) scanCategory(ctx context.Context, category string) ([]entity.Product, error) {
	key := "trends:" + category

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			logger(ctx).Debug("trend cache hit", slog.String(logx.FieldCategory, category))
			return cached, nil
		}
	}

	candidates, err := s.source.Candidates(ctx, category)
	if err != nil {
		if domain.IsNoResults(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("source.Candidates: %w", err)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	products, err := s.score(ctx, category, candidates)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, products)
	}

	return products, nil
}

type lookup struct {
	signal value.TrendSignal
	err    error
}

func (s *Scanner) score(ctx context.Context, category string, candidates []entity.Candidate) ([]entity.Product, error) {
	results := make([][]lookup, len(candidates))
	for i := range results {
		results[i] = make([]lookup, len(s.providers))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, c := range candidates {
		for j, p := range s.providers {
			g.Go(func() error {
				signal, err := s.lookup(gctx, p, c)
				results[i][j] = lookup{signal: signal, err: err}

				// auth failures cancel the rest
				if domain.IsAuthentication(err) {
					return err
				}

				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	products := make([]entity.Product, 0, len(candidates))

	var succeeded, failed int

	var lastErr error

	for i, c := range candidates {
		product := entity.NewProduct(c.Name, lo.CoalesceOrEmpty(c.Category, category), c.Cost, c.Price)

		for _, l := range results[i] {
			switch {
			case l.err == nil:
				succeeded++

				l.signal.Mentions = c.Mentions
				product.Signals = append(product.Signals, l.signal)
			case domain.IsNoResults(l.err):
				// пустой ряд: сигнал просто не учитываем
			default:
				failed++
				lastErr = l.err

				logger(ctx).Warn("trend lookup failed",
					slog.String(logx.FieldProduct, c.Name),
					logx.Error(l.err),
				)
			}
		}

		product.TrendScore, product.Trending = Combine(product.Signals)
		products = append(products, product)
	}

	if succeeded == 0 && failed > 0 {
		if domain.IsNetwork(lastErr) {
			return nil, lastErr
		}

		return nil, domain.NewNetworkError("trends", lastErr)
	}

	return products, nil
}

func (s *Scanner) lookup(ctx context.Context, p Provider, c entity.Candidate) (value.TrendSignal, error) {
	var points []float64

	err := retry.Do(ctx, p.Name()+".Interest", s.retryPolicy, domain.IsNetwork, func(ctx context.Context) error {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("limiter.Wait: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()

		var err error

		points, err = p.Interest(ctx, c)
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.NewNetworkError(p.Name(), err)
		}

		return err
	})
	if err != nil {
		return value.TrendSignal{}, err //nolint:wrapcheck
	}

	if len(points) == 0 {
		return value.TrendSignal{}, domain.NewNoResultsError(p.Name() + ": empty series")
	}

	return Score(p.Name(), points), nil
}
