package checkout

import (
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DiscountConfig is the cart-level manual discount
type DiscountConfig struct {
	Type   enum.DiscountType `json:"type"`
	Amount decimal.Decimal   `json:"amount"`
}

// DefaultDiscount is a zero flat discount
func DefaultDiscount() DiscountConfig {
	return DiscountConfig{Type: enum.DiscountTypeFlat, Amount: decimal.Zero}
}

// Cap is the largest legal amount for the discount type: 100 for percent,
// the subtotal for flat.
func (d DiscountConfig) Cap(subtotal decimal.Decimal) decimal.Decimal {
	if d.Type == enum.DiscountTypePercent {
		return hundred
	}
	return decimal.Max(subtotal, decimal.Zero)
}

// Sanitize clamps the amount into [0, Cap(subtotal)]
func (d DiscountConfig) Sanitize(subtotal decimal.Decimal) DiscountConfig {
	amount := decimal.Max(d.Amount, decimal.Zero)
	amount = decimal.Min(amount, d.Cap(subtotal))
	return DiscountConfig{Type: d.Type, Amount: amount}
}

// Value is the currency deduction the discount represents against subtotal
func (d DiscountConfig) Value(subtotal decimal.Decimal) decimal.Decimal {
	s := d.Sanitize(subtotal)
	if s.Type == enum.DiscountTypePercent {
		return s.Amount.Div(hundred).Mul(subtotal)
	}
	return s.Amount
}

// LoyaltyRedemption is the number of loyalty points the customer spends on this sale
type LoyaltyRedemption struct {
	RedeemedPoints int `json:"redeemed_points"`
}

// Clamp bounds the redemption to [0, customer.TotalPoints]. With no
// customer selected nothing can be redeemed.
func (l LoyaltyRedemption) Clamp(customer *entity.Customer) LoyaltyRedemption {
	if customer == nil || l.RedeemedPoints <= 0 {
		return LoyaltyRedemption{}
	}
	points := l.RedeemedPoints
	if points > customer.TotalPoints {
		points = customer.TotalPoints
	}
	if points < 0 {
		points = 0
	}
	return LoyaltyRedemption{RedeemedPoints: points}
}

// Value is the currency deduction of the clamped redemption
func (l LoyaltyRedemption) Value(customer *entity.Customer) decimal.Decimal {
	c := l.Clamp(customer)
	if c.RedeemedPoints == 0 {
		return decimal.Zero
	}
	factor := decimal.Max(customer.ConversionFactor, decimal.Zero)
	return decimal.NewFromInt(int64(c.RedeemedPoints)).Mul(factor)
}
