package enum

import "strings"

// InvoiceType is the fiscal document issued for a sale
type InvoiceType string

const (
	InvoiceTypeTax         InvoiceType = "Tax Invoice"
	InvoiceTypeAbbreviated InvoiceType = "ABT"
)

// ParseInvoiceType accepts the backend names as well as the short query forms "tax" and "abt"
func ParseInvoiceType(s string) (InvoiceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tax invoice", "tax", "tax_invoice":
		return InvoiceTypeTax, true
	case "abt", "abbreviated":
		return InvoiceTypeAbbreviated, true
	}
	return "", false
}

func (t InvoiceType) String() string {
	return string(t)
}
