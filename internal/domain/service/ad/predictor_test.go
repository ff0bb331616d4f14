package ad_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/service/ad"
)

func TestPredict(t *testing.T) {
	rq := require.New(t)

	bowl := entity.Product{Name: "Slow Feeder Bowl", Price: 29.99, TrendScore: 80}

	testCases := []struct {
		name      string
		product   entity.Product
		headline  string
		ctr       float64
		cpc       float64
		roas      float64
		headlineW string
		noteCount int
	}{
		{
			name:      "Default headline",
			product:   bowl,
			ctr:       0.009 * 1.15 * 1.1 * 1.1 * (0.75 + 0.4),
			cpc:       0.45 + 0.32 + 0.2999,
			roas:      0.018 * 29.99 / 1.0699,
			headlineW: "New Slow Feeder Bowl from $29.99",
			noteCount: 1,
		},
		{
			name:      "Short headline without number",
			product:   entity.Product{Name: "Lick Mat", Price: 12, TrendScore: 0},
			headline:  "Lick Mat",
			ctr:       0.009 * 0.75,
			cpc:       0.45 + 0.12,
			roas:      0.025 * 12 / 0.57,
			headlineW: "Lick Mat",
			noteCount: 3,
		},
		{
			name:      "Power words count at most twice",
			product:   entity.Product{Name: "Gadget", Price: 100, TrendScore: 100},
			headline:  "Best new free gadget, save 50% today only",
			ctr:       0.009 * 1.15 * 1.1 * 1.21 * 1.25,
			cpc:       0.45 + 0.4 + 1,
			roas:      0.012 * 100 / 1.85,
			headlineW: "Best new free gadget, save 50% today only",
			noteCount: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got := ad.NewPredictor().Predict(tc.product, tc.headline)

			rq.Equal(tc.headlineW, got.Headline)
			rq.InDelta(tc.ctr, got.CTR, 0.0001)
			rq.InDelta(tc.cpc, got.CPC, 0.006)
			rq.InDelta(tc.roas, got.ROAS, 0.006)
			rq.Len(got.Notes, tc.noteCount)
			rq.LessOrEqual(got.CTR, 0.05)
		})
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	rq := require.New(t)

	p := entity.Product{Name: "Cat Tunnel", Price: 24, TrendScore: 55}

	rq.Equal(ad.NewPredictor().Predict(p, ""), ad.NewPredictor().Predict(p, ""))
}

func TestConversionRate(t *testing.T) {
	rq := require.New(t)

	rq.InDelta(0.025, ad.ConversionRate(20), 1e-9)
	rq.InDelta(0.018, ad.ConversionRate(20.01), 1e-9)
	rq.InDelta(0.012, ad.ConversionRate(50.01), 1e-9)
}
