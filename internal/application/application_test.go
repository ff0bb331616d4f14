package application_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/application"
	"storepilot/internal/config"
	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
)

const testCatalog = `products:
  - name: Self-cleaning slicker brush
    category: pet products
    cost: 11.50
    price: 29.99
    interest: [60, 70, 80]
`

func loadConfig(t *testing.T, storeHostURL, suppliersURL string) config.Config {
	t.Helper()

	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", ":memory:")
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("TRENDS_CATALOG_PATH", catalogPath)
	t.Setenv("STOREHOST_URL", storeHostURL)
	t.Setenv("STOREHOST_ACCESS_TOKEN", "shpat_bad")
	t.Setenv("SUPPLIERS_URL", suppliersURL)
	t.Setenv("SUPPLIERS_API_KEY", "sup-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	return cfg
}

func TestRunStopsOnRejectedStoreKey(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var supplierCalls atomic.Int32

	storeHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(storeHost.Close)

	directory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		supplierCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(directory.Close)

	app, err := application.New(ctx, loadConfig(t, storeHost.URL, directory.URL))
	rq.NoError(err)
	t.Cleanup(func() { app.Close(ctx) })

	_, err = app.Run(ctx, entity.RunRequest{Goal: "pet products", Budget: 30, MinMargin: 0.35})
	rq.Error(err)
	rq.True(domain.IsAuthentication(err))
	rq.Zero(supplierCalls.Load())
}

func TestRunRejectsInvalidRequest(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	app, err := application.New(ctx, loadConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1"))
	rq.NoError(err)
	t.Cleanup(func() { app.Close(ctx) })

	_, err = app.Run(ctx, entity.RunRequest{Goal: "pet products", Budget: 0})
	rq.Error(err)
	rq.True(domain.IsValidation(err))
}

func TestNewRejectsUnknownTrendSource(t *testing.T) {
	rq := require.New(t)

	cfg := loadConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.Trends.Source = "tea-leaves"

	_, err := application.New(context.Background(), cfg)
	rq.ErrorContains(err, "tea-leaves")
}

func TestNewLLMSourceNeedsProvider(t *testing.T) {
	rq := require.New(t)

	cfg := loadConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.Trends.Source = application.TrendSourceLLM

	_, err := application.New(context.Background(), cfg)
	rq.ErrorContains(err, "LLM_PROVIDER")
}

func TestWatchWithoutCategories(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	app, err := application.New(ctx, loadConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1"))
	rq.NoError(err)
	t.Cleanup(func() { app.Close(ctx) })

	rq.ErrorContains(app.Watch(ctx, nil), "no categories")
}

func TestWorkerNeedsRedis(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	app, err := application.New(ctx, loadConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1"))
	rq.NoError(err)
	t.Cleanup(func() { app.Close(ctx) })

	rq.ErrorContains(app.Worker(ctx), "REDIS_ADDRESS")
}
