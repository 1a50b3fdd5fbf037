package entity

import (
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PaymentDetail is one finalized tender line sent with an order
type PaymentDetail struct {
	Method        enum.PaymentMethod `json:"mode_of_payment"`
	Amount        decimal.Decimal    `json:"amount"`
	ReferenceCode string             `json:"reference_no"`
}

// SubmissionLine is one cart line as the backend expects it
type SubmissionLine struct {
	ItemCode string          `json:"item_code"`
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
}

// OrderSubmission is the finalized checkout handed to the order-submission backend.
// Exactly one of DiscountAmount / DiscountPercent is non-zero, matching the discount type in effect.
type OrderSubmission struct {
	CustomerRef     string           `json:"customer"`
	Lines           []SubmissionLine `json:"cart"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	RedeemedPoints  int              `json:"redeemed_points"`
	Payments        []PaymentDetail  `json:"payments"`
	Remarks         string           `json:"remarks"`
	InvoiceType     enum.InvoiceType `json:"invoice_type"`
	GrandTotal      decimal.Decimal  `json:"-"`
}

// SubmissionResult is what the backend returns for an accepted order
type SubmissionResult struct {
	InvoiceRef string `json:"invoice"`
	InvoiceURL string `json:"invoice_url"`
}
