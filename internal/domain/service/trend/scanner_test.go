package trend_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/service/trend"
	"storepilot/pkg/retry"
)

type fakeSource map[string][]entity.Candidate

func (f fakeSource) Candidates(_ context.Context, category string) ([]entity.Candidate, error) {
	return f[category], nil
}

type fakeProvider struct {
	name   string
	series map[string][]float64
	err    error
	calls  atomic.Int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Interest(_ context.Context, c entity.Candidate) ([]float64, error) {
	f.calls.Add(1)

	if f.err != nil {
		return nil, f.err
	}

	return f.series[c.Name], nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]entity.Product
}

func (m *mapCache) Get(_ context.Context, key string) ([]entity.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]

	return v, ok
}

func (m *mapCache) Set(_ context.Context, key string, products []entity.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = products
}

func fastPolicy() retry.Policy {
	return retry.Policy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func petSource() fakeSource {
	return fakeSource{
		"pet products": {
			{Name: "Slow Feeder Bowl", Cost: 11.50, Price: 29.99},
			{Name: "Cat Tunnel", Cost: 8, Price: 24},
			{Name: "Dog Bed XL", Cost: 30, Price: 79},
			{Name: "Lick Mat", Cost: 2, Price: 12},
		},
	}
}

func TestScore(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		points   []float64
		score    float64
		trending bool
	}{
		{name: "Rising", points: []float64{10, 20, 60, 80, 90}, score: 0.7*230.0/3 + 0.3*90, trending: true},
		{name: "Flat", points: []float64{50, 50, 50}, score: 50},
		{name: "Short series", points: []float64{40}, score: 0.7*40 + 0.3*40},
		{name: "Empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			signal := trend.Score("test", tc.points)

			rq.InDelta(tc.score, signal.Score, 0.01)
			rq.Equal(tc.trending, signal.Trending)
		})
	}
}

func TestScanSortedByScoreThenMargin(t *testing.T) {
	rq := require.New(t)

	provider := &fakeProvider{
		name: "fake",
		series: map[string][]float64{
			"Slow Feeder Bowl": {40, 60, 80},
			"Cat Tunnel":       {40, 60, 80},
			"Dog Bed XL":       {10, 10, 10},
			"Lick Mat":         {90, 95, 99},
		},
	}

	products, err := trend.NewScanner(petSource(), provider).
		WithRetryPolicy(fastPolicy()).
		Scan(context.Background(), []string{" Pet Products "})
	rq.NoError(err)
	rq.Len(products, 4)

	for i := 1; i < len(products); i++ {
		prev, cur := products[i-1], products[i]

		rq.GreaterOrEqual(prev.TrendScore, cur.TrendScore)

		if prev.TrendScore == cur.TrendScore {
			rq.GreaterOrEqual(prev.Margin, cur.Margin)
		}
	}

	rq.Equal("Lick Mat", products[0].Name)
	// равный тренд, у Cat Tunnel маржа 0.667 против 0.617
	rq.Equal("Cat Tunnel", products[1].Name)
	rq.Equal("Slow Feeder Bowl", products[2].Name)
	rq.Equal("pet products", products[2].Category)
	rq.True(products[0].Trending)
}

func TestScanErrors(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		source     fakeSource
		categories []string
		provider   *fakeProvider
		check      func(error) bool
	}{
		{
			name:       "No categories",
			source:     petSource(),
			categories: []string{"  "},
			provider:   &fakeProvider{name: "fake"},
			check:      domain.IsValidation,
		},
		{
			name:       "No candidates",
			source:     fakeSource{},
			categories: []string{"garden"},
			provider:   &fakeProvider{name: "fake"},
			check:      domain.IsNoResults,
		},
		{
			name:       "Every lookup fails",
			source:     petSource(),
			categories: []string{"pet products"},
			provider:   &fakeProvider{name: "fake", err: domain.NewNetworkError("fake", errors.New("503"))},
			check:      domain.IsNetwork,
		},
		{
			name:       "Bad key",
			source:     petSource(),
			categories: []string{"pet products"},
			provider:   &fakeProvider{name: "fake", err: domain.NewAuthenticationError("fake", errors.New("401"))},
			check:      domain.IsAuthentication,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			_, err := trend.NewScanner(tc.source, tc.provider).
				WithRetryPolicy(fastPolicy()).
				Scan(context.Background(), tc.categories)

			rq.Error(err)
			rq.True(tc.check(err), err.Error())
		})
	}
}

func TestScanPartialFailureKeepsOtherSignals(t *testing.T) {
	rq := require.New(t)

	good := &fakeProvider{name: "good", series: map[string][]float64{"Lick Mat": {50, 50, 50}}}
	bad := &fakeProvider{name: "bad", err: domain.NewNetworkError("bad", errors.New("timeout"))}

	products, err := trend.NewScanner(petSource(), good, bad).
		WithRetryPolicy(fastPolicy()).
		Scan(context.Background(), []string{"pet products"})
	rq.NoError(err)
	rq.Equal("Lick Mat", products[0].Name)
	rq.InDelta(50, products[0].TrendScore, 0.001)
	rq.Len(products[0].Signals, 1)

	// three attempts per candidate on the failing provider
	rq.EqualValues(4*3, bad.calls.Load())
}

func TestScanUsesCache(t *testing.T) {
	rq := require.New(t)

	provider := &fakeProvider{name: "fake", series: map[string][]float64{"Lick Mat": {50}}}
	cache := &mapCache{data: map[string][]entity.Product{}}

	scanner := trend.NewScanner(petSource(), provider).WithCache(cache).WithRetryPolicy(fastPolicy())

	_, err := scanner.Scan(context.Background(), []string{"pet products"})
	rq.NoError(err)

	calls := provider.calls.Load()

	_, err = scanner.Scan(context.Background(), []string{"pet products"})
	rq.NoError(err)
	rq.Equal(calls, provider.calls.Load())
}
