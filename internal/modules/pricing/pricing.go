// Package pricing computes wholesale tier discounts. It is shared by the
// server (order total recomputation) and the storefront client (cart totals).
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/storefront-backend/internal/access"
)

// Tier is a volume discount band. Factor multiplies the base unit price.
type Tier struct {
	MinQuantity int
	Factor      decimal.Decimal
}

// Tiers are ordered from the highest threshold to the lowest.
var Tiers = []Tier{
	{MinQuantity: 50, Factor: decimal.RequireFromString("0.65")},
	{MinQuantity: 20, Factor: decimal.RequireFromString("0.70")},
	{MinQuantity: 10, Factor: decimal.RequireFromString("0.80")},
	{MinQuantity: 5, Factor: decimal.RequireFromString("0.85")},
}

// TierFor returns the tier that applies to quantity, if any.
func TierFor(quantity int) (Tier, bool) {
	for _, t := range Tiers {
		if quantity >= t.MinQuantity {
			return t, true
		}
	}
	return Tier{}, false
}

// UnitPrice returns the price a caller with role pays per unit when the cart
// already holds cartQuantity units of the product. Only wholesalers get tier
// discounts; discounted prices are rounded to the nearest whole currency unit.
func UnitPrice(base float64, cartQuantity int, role access.Role) float64 {
	if !access.Allowed(role, access.WholesalePricing) {
		return base
	}
	tier, ok := TierFor(cartQuantity)
	if !ok {
		return base
	}
	price, _ := decimal.NewFromFloat(base).Mul(tier.Factor).Round(0).Float64()
	return price
}

// Line is one priced cart or order line.
type Line struct {
	BasePrice float64
	Quantity  int
}

// LineTotal returns the discounted unit price times the quantity.
func LineTotal(l Line, role access.Role) decimal.Decimal {
	unit := decimal.NewFromFloat(UnitPrice(l.BasePrice, l.Quantity, role))
	return unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums LineTotal over lines.
func Total(lines []Line, role access.Role) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l, role))
	}
	total, _ := sum.Float64()
	return total
}

// ItemCount sums the quantities of lines.
func ItemCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
