package checkout

import (
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultVATRate is applied to the discounted subtotal
var DefaultVATRate = decimal.RequireFromString("0.13")

// Breakdown is the priced view of a cart
type Breakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ManualDiscount decimal.Decimal `json:"manual_discount"`
	RedeemDiscount decimal.Decimal `json:"redeem_discount"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	AfterDiscount  decimal.Decimal `json:"after_discount"`
	VAT            decimal.Decimal `json:"vat"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// Rounded returns the breakdown with every amount rounded to two places
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Subtotal:       RoundMoney(b.Subtotal),
		ManualDiscount: RoundMoney(b.ManualDiscount),
		RedeemDiscount: RoundMoney(b.RedeemDiscount),
		TotalDiscount:  RoundMoney(b.TotalDiscount),
		AfterDiscount:  RoundMoney(b.AfterDiscount),
		VAT:            RoundMoney(b.VAT),
		GrandTotal:     RoundMoney(b.GrandTotal),
	}
}

// PricingEngine prices a cart in aggregate mode: cart-level discounts come
// off the subtotal, then VAT is charged on what remains.
type PricingEngine struct {
	vatRate decimal.Decimal
}

// NewPricingEngine creates a pricing engine for the given VAT rate (0.13 = 13%).
// A negative rate is treated as zero.
func NewPricingEngine(vatRate decimal.Decimal) *PricingEngine {
	return &PricingEngine{vatRate: decimal.Max(vatRate, decimal.Zero)}
}

// VATRate returns the configured rate
func (e *PricingEngine) VATRate() decimal.Decimal {
	return e.vatRate
}

// Compute prices the lines. It has no side effects and keeps full
// precision; round with Breakdown.Rounded at display or submission time.
// Loyalty redemption is a flat cart-level deduction, not prorated per line.
func (e *PricingEngine) Compute(lines []LineItem, discount DiscountConfig, redemption LoyaltyRedemption, customer *entity.Customer) Breakdown {
	subtotal := subtotalOf(lines)
	manual := discount.Value(subtotal)
	redeem := redemption.Value(customer)

	total := decimal.Min(manual.Add(redeem), subtotal)
	after := decimal.Max(subtotal.Sub(total), decimal.Zero)
	vat := after.Mul(e.vatRate)

	return Breakdown{
		Subtotal:       subtotal,
		ManualDiscount: manual,
		RedeemDiscount: redeem,
		TotalDiscount:  total,
		AfterDiscount:  after,
		VAT:            vat,
		GrandTotal:     after.Add(vat),
	}
}
