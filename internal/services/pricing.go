package services

import "errors"

// Pricing errors surface as validation_failed at the HTTP layer.
var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidBasePrice = errors.New("base price must not be negative")
)

// PriceQuote is the result of the volume pricing calculation. The discount is
// taken off the order total; the unit price itself is never reduced.
type PriceQuote struct {
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	Discount        float64 `json:"discount"`
	TotalCost       float64 `json:"totalCost"`
}

// PricingService computes volume-discounted order totals. It is the single
// authoritative price path: both the preview endpoint and quote creation go
// through Calculate, so a client-submitted total is never trusted.
type PricingService struct{}

func NewPricingService() *PricingService { return &PricingService{} }

// DiscountPercent returns the volume discount tier for a quantity.
// Tiers replace each other, they do not stack.
func DiscountPercent(quantity int) float64 {
	switch {
	case quantity >= 10:
		return 15
	case quantity >= 5:
		return 10
	case quantity >= 3:
		return 5
	default:
		return 0
	}
}

// Calculate derives unit price, discount and total for basePrice x quantity.
// Pure: same inputs always yield the same outputs.
func (s *PricingService) Calculate(basePrice float64, quantity int) (PriceQuote, error) {
	if quantity < 1 {
		return PriceQuote{}, ErrInvalidQuantity
	}
	if basePrice < 0 {
		return PriceQuote{}, ErrInvalidBasePrice
	}
	pct := DiscountPercent(quantity)
	gross := basePrice * float64(quantity)
	discount := gross * pct / 100
	return PriceQuote{
		UnitPrice:       basePrice,
		DiscountPercent: pct,
		Discount:        discount,
		TotalCost:       gross - discount,
	}, nil
}
