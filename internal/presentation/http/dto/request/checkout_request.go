package request

import "github.com/shopspring/decimal"

// EditPaymentRequest updates one selected tender
type EditPaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	ReferenceCode *string          `json:"reference_code"`
}

// RemarksRequest sets the order remarks
type RemarksRequest struct {
	Remarks string `json:"remarks"`
}

// SubmitRequest finalizes the sale
type SubmitRequest struct {
	InvoiceType string `json:"invoice_type" binding:"required"`
}
