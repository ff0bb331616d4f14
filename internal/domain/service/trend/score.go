package trend

import (
	"cmp"
	"slices"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

const (
	recentWindow      = 3
	recentWeight      = 0.7
	peakWeight        = 0.3
	trendingThreshold = 70
)

// Score сворачивает временной ряд интереса (0..100) в один балл.
func Score(source string, points []float64) value.TrendSignal {
	if len(points) == 0 {
		return value.TrendSignal{Source: source}
	}

	tail := points[max(0, len(points)-recentWindow):]

	var sum float64

	trending := false

	for _, p := range tail {
		sum += p

		if p > trendingThreshold {
			trending = true
		}
	}

	recent := sum / float64(len(tail))
	peak := slices.Max(points)

	return value.TrendSignal{
		Source:   source,
		Recent:   recent,
		Peak:     peak,
		Score:    value.RoundCents(recentWeight*recent + peakWeight*peak),
		Trending: trending,
	}
}

// Combine averages the provider scores of one product.
func Combine(signals []value.TrendSignal) (float64, bool) {
	if len(signals) == 0 {
		return 0, false
	}

	var sum float64

	trending := false

	for _, s := range signals {
		sum += s.Score
		trending = trending || s.Trending
	}

	return value.RoundCents(sum / float64(len(signals))), trending
}

// Sort orders by trend score desc, then margin desc, then name.
func Sort(products []entity.Product) {
	slices.SortStableFunc(products, func(a, b entity.Product) int {
		if c := cmp.Compare(b.TrendScore, a.TrendScore); c != 0 {
			return c
		}

		if c := cmp.Compare(b.Margin, a.Margin); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})
}
