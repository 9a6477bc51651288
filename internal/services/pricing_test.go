package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountTierBoundaries(t *testing.T) {
	svc := NewPricingService()
	cases := []struct {
		quantity    int
		wantPct     float64
		wantTotal   float64 // at basePrice 100
		wantDiscount float64
	}{
		{1, 0, 100, 0},
		{2, 0, 200, 0},
		{3, 5, 285, 15},
		{4, 5, 380, 20},
		{5, 10, 450, 50},
		{9, 10, 810, 90},
		{10, 15, 850, 150},
		{11, 15, 935, 165},
	}
	for _, c := range cases {
		got, err := svc.Calculate(100, c.quantity)
		require.NoError(t, err, "quantity %d", c.quantity)
		assert.Equal(t, c.wantPct, got.DiscountPercent, "pct at quantity %d", c.quantity)
		assert.InDelta(t, c.wantDiscount, got.Discount, 1e-9, "discount at quantity %d", c.quantity)
		assert.InDelta(t, c.wantTotal, got.TotalCost, 1e-9, "total at quantity %d", c.quantity)
		assert.Equal(t, 100.0, got.UnitPrice, "unit price never changes")
	}
}

func TestPricingMonotonicity(t *testing.T) {
	// Higher quantity never buys for less than a smaller order, even across
	// tier boundaries.
	svc := NewPricingService()
	quantities := []int{2, 3, 4, 5, 9, 10, 11}
	prev := -1.0
	for _, q := range quantities {
		got, err := svc.Calculate(79.99, q)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.TotalCost, prev, "total decreased at quantity %d", q)
		prev = got.TotalCost
	}
}

func TestPricingValidation(t *testing.T) {
	svc := NewPricingService()

	_, err := svc.Calculate(100, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Calculate(100, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Calculate(-1, 2)
	assert.ErrorIs(t, err, ErrInvalidBasePrice)

	// Zero base price is allowed and yields zero totals.
	got, err := svc.Calculate(0, 10)
	require.NoError(t, err)
	assert.Zero(t, got.TotalCost)
	assert.Zero(t, got.Discount)
}
