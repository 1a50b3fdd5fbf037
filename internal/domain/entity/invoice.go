package entity

import (
	"strings"

	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Invoice is a past sale issued by the remote backend
type Invoice struct {
	Name           string           `json:"name"`
	CustomFullName string           `json:"custom_full_name"`
	Customer       string           `json:"customer"`
	TaxID          string           `json:"tax_id,omitempty"`
	GrandTotal     decimal.Decimal  `json:"grand_total"`
	InvoiceType    enum.InvoiceType `json:"invoice_type"`
	InvoiceURL     string           `json:"invoice_url,omitempty"`
	PostingDate    string           `json:"posting_date,omitempty"`
	Status         string           `json:"status,omitempty"`
}

// Matches reports whether query is a case-insensitive substring of the
// invoice name, tax id, customer or customer full name. An empty query matches.
func (i *Invoice) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{i.Name, i.TaxID, i.Customer, i.CustomFullName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// CancelInvoiceResult is the backend's verdict on a cancellation request
type CancelInvoiceResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
