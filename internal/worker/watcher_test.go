package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

type fakeScanner struct {
	mu      sync.Mutex
	results map[string][]entity.Product
	calls   []string
}

func (f *fakeScanner) Scan(_ context.Context, categories []string) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, categories...)

	products, ok := f.results[categories[0]]
	if !ok {
		return nil, domain.NewNoResultsError("nothing")
	}

	return products, nil
}

func product(name string, score float64) entity.Product {
	p := entity.NewProduct(name, "pets", 2, 10)
	p.TrendScore = score

	return p
}

func TestScanOnceEmitsNewProductsAboveThreshold(t *testing.T) {
	rq := require.New(t)

	scanner := &fakeScanner{results: map[string][]entity.Product{
		"pets": {product("Lick Mat", 81), product("Chew Rope", 40)},
	}}

	alerts := make(chan entity.TrendAlert, 10)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	w := worker.NewTrendWatcher(scanner, alerts).
		WithCategories("Pets", "garden").
		WithMinScore(60).
		WithRateControl(time.Hour, 0).
		WithClock(func() time.Time { return now })

	rq.Equal(1, w.ScanOnce(context.Background()))
	rq.Equal([]string{"pets", "garden"}, scanner.calls)

	alert := <-alerts
	rq.Equal("pets", alert.Category)
	rq.Equal("Lick Mat", alert.Product.Name)
	rq.Equal(now, alert.SeenAt)

	// уже видели
	rq.Equal(0, w.ScanOnce(context.Background()))
}

func TestWatchlist(t *testing.T) {
	rq := require.New(t)

	w := worker.NewTrendWatcher(&fakeScanner{}, make(chan entity.TrendAlert))

	rq.True(w.AddCategory(" Kitchen "))
	rq.False(w.AddCategory("kitchen"))
	rq.False(w.AddCategory(""))
	rq.True(w.AddCategory("pets"))
	rq.True(w.HasCategory("KITCHEN"))
	rq.Equal([]string{"kitchen", "pets"}, w.Categories())

	rq.True(w.RemoveCategory("kitchen"))
	rq.False(w.RemoveCategory("kitchen"))
	rq.Equal([]string{"pets"}, w.Categories())

	w.SetCategories([]string{"a", "b", "a"})
	rq.Equal([]string{"a", "b"}, w.Categories())
}

func TestStartStop(t *testing.T) {
	rq := require.New(t)

	scanner := &fakeScanner{results: map[string][]entity.Product{"pets": {product("Lick Mat", 90)}}}
	alerts := make(chan entity.TrendAlert, 1)

	w := worker.NewTrendWatcher(scanner, alerts).
		WithCategories("pets").
		WithRateControl(10*time.Millisecond, 0)

	rq.NoError(w.Start(context.Background()))
	rq.Error(w.Start(context.Background()))
	rq.True(w.IsRunning())

	select {
	case alert := <-alerts:
		rq.Equal("Lick Mat", alert.Product.Name)
	case <-time.After(time.Second):
		t.Fatal("no alert")
	}

	w.Stop()
	rq.False(w.IsRunning())

	// повторная остановка не блокирует
	w.Stop()
}
