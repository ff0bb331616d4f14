package storehost_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/storehost"
)

func TestStoreHost(t *testing.T) {
	rq := require.New(t)

	var created string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/api/2024-10/shops/{name}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("name") != "pet-store.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"shop":{"name":"pet-store","domain":"pet-store.myshopify.com",` +
			`"created_at":"2026-01-01T00:00:00Z","trial_ends_at":"2026-01-15T00:00:00Z"}}`))
	})
	mux.HandleFunc("POST /admin/api/2024-10/shops.json", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		created = string(b)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"shop":{"name":"new-store"}}`))
	})
	mux.HandleFunc("GET /admin/api/2024-10/shop.json", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Shopify-Access-Token") != "shpat" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		mux.ServeHTTP(w, r)
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	host := storehost.New(storehost.Options{ShopURL: srv.URL, AccessToken: "shpat", TrialDays: 3}).
		WithClock(func() time.Time { return now })

	rec, ok, err := host.FindStore(context.Background(), "pet-store")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), rec.TrialExpiresAt)

	_, ok, err = host.FindStore(context.Background(), "other-store")
	rq.NoError(err)
	rq.False(ok)

	rec, err = host.CreateStore(context.Background(), "new-store", []entity.Product{
		entity.NewProduct("Lick Mat", "pets", 2, 14.99),
	})
	rq.NoError(err)
	rq.Equal("new-store.myshopify.com", rec.Domain)
	rq.Equal(now, rec.CreatedAt)
	rq.Equal(now.Add(72*time.Hour), rec.TrialExpiresAt)
	rq.Contains(created, `"title":"Lick Mat"`)
	rq.Contains(created, `"price":"14.99"`)

	rq.NoError(host.Verify(context.Background()))

	err = storehost.New(storehost.Options{ShopURL: srv.URL, AccessToken: "bad"}).Verify(context.Background())
	rq.True(domain.IsAuthentication(err))

	err = storehost.New(storehost.Options{ShopURL: srv.URL}).Verify(context.Background())
	rq.True(domain.IsAuthentication(err))
}
