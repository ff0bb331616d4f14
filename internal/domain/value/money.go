package value

import "math"

// Margin returns (price - cost) / price. Non-positive prices yield 0.
func Margin(cost, price float64) float64 {
	if price <= 0 {
		return 0
	}

	return (price - cost) / price
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
