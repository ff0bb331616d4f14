package supplier

import (
	"math"

	"storepilot/internal/domain/entity"
)

const (
	ratingWeight      = 0.4
	fulfillmentWeight = 0.3
	responseWeight    = 0.2
	tenureWeight      = 0.1
	tenureCapYears    = 5
	maxRating         = 5
)

// TrustScore = 0.4·rating/5 + 0.3·fulfillment + 0.2·response + 0.1·min(years,5)/5,
// каждая составляющая и результат ограничены [0, 1].
func TrustScore(p entity.SupplierProfile) float64 {
	score := ratingWeight*unit(p.Rating/maxRating) +
		fulfillmentWeight*unit(p.FulfillmentRate) +
		responseWeight*unit(p.ResponseRate) +
		tenureWeight*unit(math.Min(p.YearsActive, tenureCapYears)/tenureCapYears)

	return math.Round(unit(score)*1000) / 1000
}

func unit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return math.Max(0, math.Min(1, v))
}
