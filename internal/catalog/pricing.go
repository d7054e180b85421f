package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FinalPrice computes price - price*discountPercent/100 exactly. Callers
// round for display.
func FinalPrice(price, discountPercent float64) decimal.Decimal {
	p := decimal.NewFromFloat(price)
	off := p.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred)
	return p.Sub(off)
}

// OldPrice recovers the undiscounted price from a discounted price and the
// discount percent: price / (1 - discountPercent/100), rounded to cents.
// A zero discount returns the price unchanged.
func OldPrice(price, discountPercent float64) (decimal.Decimal, error) {
	if discountPercent < 0 || discountPercent >= 100 {
		return decimal.Zero, fmt.Errorf("discount percent %v out of range [0,100)", discountPercent)
	}
	p := decimal.NewFromFloat(price)
	if discountPercent == 0 {
		return p.Round(2), nil
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPercent).Div(hundred))
	return p.Div(factor).Round(2), nil
}

// ValidDiscount reports whether pct is a usable discount percent.
func ValidDiscount(pct float64) bool {
	return pct >= 0 && pct <= 100
}
