package request

import "encoding/json"

// AddItemRequest adds a catalog product by item code
type AddItemRequest struct {
	ItemCode string `json:"item_code" binding:"required"`
}

// ScanRequest adds the product whose barcode matches exactly
type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

// SetPriceRequest overrides a line's unit price. Price is kept raw so a
// number, a quoted number or stray text all reach the service.
type SetPriceRequest struct {
	Price json.RawMessage `json:"price"`
}

// DiscountRequest carries the discount controls. Amount is the raw text of
// the amount field; a nil amount leaves the value alone.
type DiscountRequest struct {
	Type   string  `json:"type"`
	Amount *string `json:"amount"`
}

// RedeemRequest carries the raw text of the points field
type RedeemRequest struct {
	Points string `json:"points"`
}

// SelectCustomerRequest picks a customer from the latest search results
type SelectCustomerRequest struct {
	ID string `json:"id" binding:"required"`
}
