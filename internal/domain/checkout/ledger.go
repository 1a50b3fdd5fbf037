package checkout

import (
	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineItem is one distinct cart entry
type LineItem struct {
	OrderID             uuid.UUID       `json:"order_id"`
	ItemCode            string          `json:"item_code"`
	Name                string          `json:"item_name"`
	Barcode             string          `json:"barcode,omitempty"`
	ImageRef            string          `json:"image,omitempty"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Quantity            int             `json:"quantity"`
	StockQuantity       int             `json:"stock_qty"`
	LineDiscountPercent decimal.Decimal `json:"line_discount_percent"`
	TaxRate             decimal.Decimal `json:"tax_rate"`

	key string
}

// LineTotal is unitPrice × quantity
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartLedger holds the cart lines, newest first. Every line keeps
// 1 <= Quantity <= StockQuantity. It is not safe for concurrent use; the
// owning terminal serializes access.
type CartLedger struct {
	lines []LineItem
}

// NewCartLedger creates an empty cart
func NewCartLedger() *CartLedger {
	return &CartLedger{}
}

// Add puts one unit of product in the cart. An existing line with the same
// identity key is incremented against the stock ceiling it was created with;
// otherwise a new line is prepended.
func (c *CartLedger) Add(product entity.Product) (LineItem, error) {
	key := product.IdentityKey()
	if key == "" {
		return LineItem{}, ErrMissingIdentity
	}

	if i := c.indexByKey(key); i >= 0 {
		line := &c.lines[i]
		if line.Quantity+1 > line.StockQuantity {
			return LineItem{}, &StockLimitError{Name: line.Name, Available: line.StockQuantity}
		}
		line.Quantity++
		return *line, nil
	}

	if !product.InStock() {
		return LineItem{}, ErrOutOfStock
	}

	line := LineItem{
		OrderID:             uuid.New(),
		ItemCode:            product.ItemCode,
		Name:                product.Name,
		Barcode:             product.Barcode,
		ImageRef:            product.ImageRef,
		UnitPrice:           decimal.Max(product.UnitPrice, decimal.Zero),
		Quantity:            1,
		StockQuantity:       product.StockQuantity,
		LineDiscountPercent: product.DiscountPercent,
		TaxRate:             product.TaxRate,
		key:                 key,
	}
	c.lines = append([]LineItem{line}, c.lines...)
	return line, nil
}

// Increment raises the line quantity by one. Exceeding the stock ceiling
// returns a *StockLimitError and leaves the cart unchanged.
func (c *CartLedger) Increment(orderID uuid.UUID) (LineItem, error) {
	i := c.indexByID(orderID)
	if i < 0 {
		return LineItem{}, ErrLineNotFound
	}
	line := &c.lines[i]
	if line.Quantity+1 > line.StockQuantity {
		return LineItem{}, &StockLimitError{Name: line.Name, Available: line.StockQuantity}
	}
	line.Quantity++
	return *line, nil
}

// Decrement lowers the quantity by one and drops the line when it reaches
// zero. The returned bool is true when the line was removed.
func (c *CartLedger) Decrement(orderID uuid.UUID) (LineItem, bool, error) {
	i := c.indexByID(orderID)
	if i < 0 {
		return LineItem{}, false, ErrLineNotFound
	}
	line := c.lines[i]
	if line.Quantity <= 1 {
		c.removeAt(i)
		line.Quantity = 0
		return line, true, nil
	}
	c.lines[i].Quantity--
	return c.lines[i], false, nil
}

// Remove deletes the line regardless of quantity
func (c *CartLedger) Remove(orderID uuid.UUID) error {
	i := c.indexByID(orderID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.removeAt(i)
	return nil
}

// SetPrice overrides the unit price; negative prices become zero
func (c *CartLedger) SetPrice(orderID uuid.UUID, price decimal.Decimal) (LineItem, error) {
	i := c.indexByID(orderID)
	if i < 0 {
		return LineItem{}, ErrLineNotFound
	}
	c.lines[i].UnitPrice = decimal.Max(price, decimal.Zero)
	return c.lines[i], nil
}

// Clear empties the cart
func (c *CartLedger) Clear() {
	c.lines = nil
}

// Items returns a copy of the lines, newest first
func (c *CartLedger) Items() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Get returns the line with orderID
func (c *CartLedger) Get(orderID uuid.UUID) (LineItem, bool) {
	i := c.indexByID(orderID)
	if i < 0 {
		return LineItem{}, false
	}
	return c.lines[i], true
}

// Len is the number of distinct lines
func (c *CartLedger) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *CartLedger) IsEmpty() bool {
	return len(c.lines) == 0
}

// Subtotal is Σ unitPrice × quantity in full precision
func (c *CartLedger) Subtotal() decimal.Decimal {
	return subtotalOf(c.lines)
}

func subtotalOf(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func (c *CartLedger) indexByKey(key string) int {
	for i := range c.lines {
		if c.lines[i].key == key {
			return i
		}
	}
	return -1
}

func (c *CartLedger) indexByID(id uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].OrderID == id {
			return i
		}
	}
	return -1
}

func (c *CartLedger) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
