package supplier_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/service/supplier"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/retry"
)

type fakeDirectory struct {
	ids      []string
	profiles map[string]entity.SupplierProfile
	slow     map[string]bool
	authFail bool

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeDirectory) Search(context.Context, entity.Product) ([]string, error) {
	return f.ids, nil
}

func (f *fakeDirectory) Profile(ctx context.Context, id string) (entity.SupplierProfile, error) {
	f.mu.Lock()
	f.calls[id]++
	f.mu.Unlock()

	if f.authFail {
		return entity.SupplierProfile{}, domain.NewAuthenticationError("suppliers", errors.New("401"))
	}

	if f.slow[id] {
		<-ctx.Done()

		return entity.SupplierProfile{}, ctx.Err()
	}

	return f.profiles[id], nil
}

func profiles() map[string]entity.SupplierProfile {
	return map[string]entity.SupplierProfile{
		"acme":  {ID: "acme", Name: "Acme", Rating: 4.8, FulfillmentRate: 0.97, ResponseRate: 0.9, YearsActive: 8, MinOrderQuantity: 50, LeadTimeDays: 7},
		"zeta":  {ID: "zeta", Name: "Zeta", Rating: 4.0, FulfillmentRate: 0.8, ResponseRate: 0.7, YearsActive: 2, MinOrderQuantity: 200, LeadTimeDays: 14},
		"shady": {ID: "shady", Name: "Shady", Rating: 1.5, FulfillmentRate: 0.3, ResponseRate: 0.2},
	}
}

func newFinder(dir *fakeDirectory) *supplier.Finder {
	return supplier.NewFinder(dir).
		WithCallTimeout(20 * time.Millisecond).
		WithRetryPolicy(retry.Policy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})
}

func TestTrustScore(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		profile entity.SupplierProfile
		want    float64
	}{
		{
			name:    "Perfect",
			profile: entity.SupplierProfile{Rating: 5, FulfillmentRate: 1, ResponseRate: 1, YearsActive: 10},
			want:    1,
		},
		{
			name:    "Average",
			profile: entity.SupplierProfile{Rating: 4, FulfillmentRate: 0.8, ResponseRate: 0.7, YearsActive: 2},
			want:    0.4*0.8 + 0.3*0.8 + 0.2*0.7 + 0.1*0.4,
		},
		{
			name:    "Out of range inputs are clamped",
			profile: entity.SupplierProfile{Rating: 9, FulfillmentRate: 1.5, ResponseRate: -1, YearsActive: -3},
			want:    0.7,
		},
		{name: "Empty profile"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.InDelta(tc.want, supplier.TrustScore(tc.profile), 0.001)
		})
	}
}

func TestFindSortsAndFiltersByTrust(t *testing.T) {
	rq := require.New(t)

	dir := &fakeDirectory{ids: []string{"zeta", "shady", "acme"}, profiles: profiles(), calls: map[string]int{}}

	suppliers, failures, err := newFinder(dir).Find(context.Background(), entity.Product{Name: "Lick Mat"}, 5)
	rq.NoError(err)
	rq.Empty(failures)
	rq.Len(suppliers, 2)
	rq.Equal("acme", suppliers[0].ID)
	rq.Equal("zeta", suppliers[1].ID)
	rq.Equal(7*24*time.Hour, suppliers[0].LeadTime)
	rq.Equal("Lick Mat", suppliers[0].ProductName)
}

func TestFindContinuesAfterSupplierTimeout(t *testing.T) {
	rq := require.New(t)

	dir := &fakeDirectory{
		ids:      []string{"acme", "slowpoke", "zeta"},
		profiles: profiles(),
		slow:     map[string]bool{"slowpoke": true},
		calls:    map[string]int{},
	}

	suppliers, failures, err := newFinder(dir).Find(context.Background(), entity.Product{Name: "Lick Mat"}, 5)
	rq.NoError(err)
	rq.Len(suppliers, 2)
	rq.Len(failures, 1)
	rq.Equal("slowpoke", failures[0].SupplierID)
	rq.Equal(errcodes.NetworkFailure, failures[0].Kind)
	rq.Equal(3, dir.calls["slowpoke"])
	rq.Equal(1, dir.calls["acme"])
}

func TestFindErrors(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		dir   *fakeDirectory
		check func(error) bool
	}{
		{
			name:  "No suppliers",
			dir:   &fakeDirectory{calls: map[string]int{}},
			check: domain.IsNoResults,
		},
		{
			name:  "Authentication aborts the batch",
			dir:   &fakeDirectory{ids: []string{"acme", "zeta"}, authFail: true, calls: map[string]int{}},
			check: domain.IsAuthentication,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			_, _, err := newFinder(tc.dir).Find(context.Background(), entity.Product{Name: "Lick Mat"}, 5)
			rq.Error(err)
			rq.True(tc.check(err), err.Error())
		})
	}
}
