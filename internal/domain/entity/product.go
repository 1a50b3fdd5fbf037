package entity

import "github.com/shopspring/decimal"

// Product is a catalog snapshot row served by the remote backend
type Product struct {
	ItemCode        string          `json:"item_code"`
	Name            string          `json:"item_name"`
	Barcode         string          `json:"barcode,omitempty"`
	ImageRef        string          `json:"image,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	StockQuantity   int             `json:"stock_qty"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// IdentityKey is the value cart lines merge on: the item code, else the barcode
func (p *Product) IdentityKey() string {
	if p.ItemCode != "" {
		return p.ItemCode
	}
	return p.Barcode
}

// InStock reports whether at least one unit can be sold
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
