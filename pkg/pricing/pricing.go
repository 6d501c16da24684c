package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	// Deliveries above this subtotal are free.
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	StandardDeliveryFee   = decimal.NewFromInt(25)
	TaxRate               = decimal.RequireFromString("0.1")
)

type Line struct {
	Price    float64
	Quantity int
}

type Bill struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

func Subtotal(lines ...Line) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum.InexactFloat64()
}

// Compute derives the bill for a subtotal. Tax is rounded to a whole unit,
// half away from zero.
func Compute(subtotal float64) Bill {
	s := decimal.NewFromFloat(subtotal)

	fee := StandardDeliveryFee
	if s.GreaterThan(FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	tax := s.Mul(TaxRate).Round(0)

	return Bill{
		Subtotal:    s.InexactFloat64(),
		DeliveryFee: fee.InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		Total:       s.Add(fee).Add(tax).InexactFloat64(),
	}
}

func ComputeLines(lines ...Line) Bill {
	return Compute(Subtotal(lines...))
}
