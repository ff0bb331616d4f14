package negotiation

import (
	"math"

	"storepilot/internal/domain/value"
)

const (
	baseDiscount   = 0.10
	volumeDiscount = 0.05
	maxDiscount    = 0.20
	volumeFactor   = 2
)

type Offer struct {
	UnitPrice float64
	Discount  float64
	Quantity  int
}

// MakeOffer: 10% от себестоимости, ещё 5% при объёме от 2×MOQ, не больше 20%.
// Количество поднимается до MOQ.
func MakeOffer(unitCost float64, quantity, moq int) Offer {
	if quantity < moq {
		quantity = moq
	}

	discount := baseDiscount
	if moq > 0 && quantity >= volumeFactor*moq {
		discount += volumeDiscount
	}

	discount = math.Min(discount, maxDiscount)

	return Offer{
		UnitPrice: value.RoundCents(unitCost * (1 - discount)),
		Discount:  discount,
		Quantity:  quantity,
	}
}
