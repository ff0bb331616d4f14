// Package ad оценивает рекламную кампанию без обращения к внешним API.
package ad

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

const (
	baseCTR         = 0.009
	maxCTR          = 0.05
	lengthBonus     = 1.15
	numberBonus     = 1.10
	powerWordBonus  = 1.10
	maxPowerWords   = 2
	minHeadlineLen  = 25
	maxHeadlineLen  = 60
	baseCPC         = 0.45
	competitionCPC  = 0.004
	priceCPC        = 0.01
	minCPC          = 0.20
	cheapPrice      = 20
	midPrice        = 50
	cheapConversion = 0.025
	midConversion   = 0.018
	highConversion  = 0.012
)

//nolint:gochecknoglobals
var powerWords = []string{"new", "free", "save", "best", "easy", "instant", "proven", "exclusive", "limited", "sale"}

type Predictor struct{}

func NewPredictor() Predictor {
	return Predictor{}
}

// Predict is pure: the same product and headline always give the same numbers.
func (Predictor) Predict(product entity.Product, headline string) entity.AdPrediction {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		headline = DefaultHeadline(product)
	}

	var notes []string

	factor := 1.0

	length := len([]rune(headline))

	switch {
	case length >= minHeadlineLen && length <= maxHeadlineLen:
		factor *= lengthBonus
	case length > maxHeadlineLen:
		notes = append(notes, "headline is longer than 60 characters and may be cut off")
	default:
		notes = append(notes, "headline is short, add a benefit")
	}

	if strings.ContainsFunc(headline, unicode.IsDigit) {
		factor *= numberBonus
	} else {
		notes = append(notes, "no number in headline, consider a price or a percentage")
	}

	factor *= math.Pow(powerWordBonus, float64(countPowerWords(headline)))

	trendFactor := 0.75 + 0.5*clamp(product.TrendScore, 0, 100)/100

	ctr := math.Min(baseCTR*factor*trendFactor, maxCTR)
	cpc := math.Max(baseCPC+competitionCPC*product.TrendScore+priceCPC*product.Price, minCPC)
	roas := ConversionRate(product.Price) * product.Price / cpc

	if roas < 1 {
		notes = append(notes, "predicted ROAS is below 1, the campaign loses money per click")
	}

	return entity.AdPrediction{
		ProductName: product.Name,
		Headline:    headline,
		CTR:         math.Round(ctr*10000) / 10000,
		CPC:         value.RoundCents(cpc),
		ROAS:        value.RoundCents(roas),
		Notes:       notes,
	}
}

func ConversionRate(price float64) float64 {
	switch {
	case price <= cheapPrice:
		return cheapConversion
	case price <= midPrice:
		return midConversion
	default:
		return highConversion
	}
}

func DefaultHeadline(product entity.Product) string {
	return "New " + product.Name + " from $" + trimPrice(product.Price)
}

func countPowerWords(headline string) int {
	n := 0

	for _, w := range strings.FieldsFunc(strings.ToLower(headline), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		for _, pw := range powerWords {
			if w == pw {
				n++
				break
			}
		}
	}

	return min(n, maxPowerWords)
}

func trimPrice(p float64) string {
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(p, 'f', 2, 64), "0"), ".")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
