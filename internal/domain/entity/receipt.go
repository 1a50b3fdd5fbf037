package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptPayment is one tender line on a receipt.
type ReceiptPayment struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// Receipt is a printable value object composed from a completed checkout.
// Money fields are already rounded to two places.
type Receipt struct {
	Header      ReceiptHeader    `json:"header"`
	InvoiceNo   string           `json:"invoice_no"`
	InvoiceType string           `json:"invoice_type,omitempty"`
	InvoiceURL  string           `json:"invoice_url,omitempty"`
	Date        string           `json:"date"`
	Cashier     string           `json:"cashier,omitempty"`
	Customer    string           `json:"customer,omitempty"`
	Items       []ReceiptItem    `json:"items"`
	SubTotal    decimal.Decimal  `json:"sub_total"`
	Discount    decimal.Decimal  `json:"discount"`
	VAT         decimal.Decimal  `json:"vat"`
	Total       decimal.Decimal  `json:"total"`
	Payments    []ReceiptPayment `json:"payments,omitempty"`
	Paid        decimal.Decimal  `json:"paid"`
	Change      decimal.Decimal  `json:"change"`
	Remarks     string           `json:"remarks,omitempty"`
}
