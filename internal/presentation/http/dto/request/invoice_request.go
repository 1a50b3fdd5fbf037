package request

// InvoiceFilterRequest represents invoice list filter parameters
type InvoiceFilterRequest struct {
	Type     string `form:"type"`
	Search   string `form:"search"`
	Customer string `form:"customer"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// CancelInvoiceRequest carries the cancellation remarks
type CancelInvoiceRequest struct {
	Remarks string `json:"remarks"`
}
