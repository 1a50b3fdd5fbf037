package checkout

import (
	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DefaultAbbreviatedLimit is the highest grand total an ABT invoice may carry
var DefaultAbbreviatedLimit = decimal.NewFromInt(10000)

// SessionConfig tunes the pricing and payment rules of a Session
type SessionConfig struct {
	VATRate          decimal.Decimal
	Tolerance        decimal.Decimal
	AbbreviatedLimit decimal.Decimal
}

// DefaultSessionConfig returns 13% VAT, a 0.01 tolerance and a 10000 ABT limit
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		VATRate:          DefaultVATRate,
		Tolerance:        DefaultTolerance,
		AbbreviatedLimit: DefaultAbbreviatedLimit,
	}
}

// Snapshot is what the terminal UI renders
type Snapshot struct {
	Items      []LineItem        `json:"items"`
	ItemCount  int               `json:"item_count"`
	Totals     Breakdown         `json:"totals"`
	Discount   DiscountConfig    `json:"discount"`
	Redemption LoyaltyRedemption `json:"redemption"`
	Customer   *entity.Customer  `json:"customer"`
	Payment    *PaymentStatus    `json:"payment,omitempty"`
}

// Session is one operator's checkout: cart, discount, loyalty redemption,
// selected customer and payment. All of it resets together.
type Session struct {
	cart       *CartLedger
	pricing    *PricingEngine
	payment    *PaymentReconciler
	discount   DiscountConfig
	redemption LoyaltyRedemption
	customer   *entity.Customer

	paymentOpen      bool
	abbreviatedLimit decimal.Decimal
}

// NewSession creates an empty checkout session
func NewSession(cfg SessionConfig) *Session {
	limit := cfg.AbbreviatedLimit
	if !limit.IsPositive() {
		limit = DefaultAbbreviatedLimit
	}
	return &Session{
		cart:             NewCartLedger(),
		pricing:          NewPricingEngine(cfg.VATRate),
		payment:          NewPaymentReconciler(cfg.Tolerance),
		discount:         DefaultDiscount(),
		abbreviatedLimit: limit,
	}
}

// AddProduct adds one unit of product to the cart
func (s *Session) AddProduct(product entity.Product) (LineItem, error) {
	line, err := s.cart.Add(product)
	if err != nil {
		return LineItem{}, err
	}
	s.resanitize()
	return line, nil
}

// IncrementLine raises a line's quantity by one
func (s *Session) IncrementLine(orderID uuid.UUID) (LineItem, error) {
	line, err := s.cart.Increment(orderID)
	if err != nil {
		return LineItem{}, err
	}
	s.resanitize()
	return line, nil
}

// DecrementLine lowers a line's quantity, removing it at zero
func (s *Session) DecrementLine(orderID uuid.UUID) (LineItem, bool, error) {
	line, removed, err := s.cart.Decrement(orderID)
	if err != nil {
		return LineItem{}, false, err
	}
	s.resanitize()
	return line, removed, nil
}

// RemoveLine deletes a line
func (s *Session) RemoveLine(orderID uuid.UUID) error {
	if err := s.cart.Remove(orderID); err != nil {
		return err
	}
	s.resanitize()
	return nil
}

// SetLinePrice overrides a line's unit price
func (s *Session) SetLinePrice(orderID uuid.UUID, price decimal.Decimal) (LineItem, error) {
	line, err := s.cart.SetPrice(orderID, price)
	if err != nil {
		return LineItem{}, err
	}
	s.resanitize()
	return line, nil
}

// ClearCart empties the cart and resets discount, redemption and payment.
// The selected customer is kept.
func (s *Session) ClearCart() {
	s.cart.Clear()
	s.discount = DefaultDiscount()
	s.redemption = LoyaltyRedemption{}
	s.closePayment()
}

// SetDiscount replaces the discount, clamped to the current subtotal
func (s *Session) SetDiscount(d DiscountConfig) DiscountConfig {
	s.discount = d.Sanitize(s.cart.Subtotal())
	return s.discount
}

// SetDiscountType switches the discount type and re-clamps the amount
func (s *Session) SetDiscountType(t enum.DiscountType) DiscountConfig {
	return s.SetDiscount(DiscountConfig{Type: t, Amount: s.discount.Amount})
}

// Discount returns the active discount
func (s *Session) Discount() DiscountConfig {
	return s.discount
}

// SetRedeemedPoints stores the redemption clamped to the customer's balance
func (s *Session) SetRedeemedPoints(points int) LoyaltyRedemption {
	s.redemption = LoyaltyRedemption{RedeemedPoints: points}.Clamp(s.customer)
	return s.redemption
}

// Redemption returns the active loyalty redemption
func (s *Session) Redemption() LoyaltyRedemption {
	return s.redemption
}

// SelectCustomer attaches a customer; the redemption is re-clamped to their points
func (s *Session) SelectCustomer(c entity.Customer) {
	s.customer = &c
	s.redemption = s.redemption.Clamp(s.customer)
}

// ClearCustomer detaches the customer, which also drops any redemption
func (s *Session) ClearCustomer() {
	s.customer = nil
	s.redemption = LoyaltyRedemption{}
}

// Customer returns a copy of the selected customer, or nil
func (s *Session) Customer() *entity.Customer {
	if s.customer == nil {
		return nil
	}
	c := *s.customer
	return &c
}

// Items returns the cart lines newest first
func (s *Session) Items() []LineItem {
	return s.cart.Items()
}

// Totals prices the cart in full precision
func (s *Session) Totals() Breakdown {
	return s.pricing.Compute(s.cart.Items(), s.discount, s.redemption, s.customer)
}

// AllowedInvoiceTypes lists the invoice types the current total permits
func (s *Session) AllowedInvoiceTypes() []enum.InvoiceType {
	types := []enum.InvoiceType{enum.InvoiceTypeTax}
	if RoundMoney(s.Totals().GrandTotal).LessThanOrEqual(s.abbreviatedLimit) {
		types = append(types, enum.InvoiceTypeAbbreviated)
	}
	return types
}

// BeginPayment opens the payment step against the current rounded grand
// total. Requires a selected customer and a non-empty cart.
func (s *Session) BeginPayment() (PaymentStatus, error) {
	if s.customer == nil {
		return PaymentStatus{}, ErrNoCustomer
	}
	if s.cart.IsEmpty() {
		return PaymentStatus{}, ErrEmptyCart
	}
	s.payment.Reset()
	s.payment.SetGrandTotal(s.Totals().GrandTotal)
	s.paymentOpen = true
	return s.payment.Status(), nil
}

// CancelPayment abandons the payment step, keeping the cart
func (s *Session) CancelPayment() {
	s.closePayment()
}

// PaymentOpen reports whether the payment step is active
func (s *Session) PaymentOpen() bool {
	return s.paymentOpen
}

// TogglePayment selects or deselects a tender
func (s *Session) TogglePayment(method enum.PaymentMethod) (PaymentStatus, error) {
	if err := s.requirePayment(); err != nil {
		return PaymentStatus{}, err
	}
	if _, err := s.payment.ToggleMethod(method); err != nil {
		return PaymentStatus{}, err
	}
	return s.payment.Status(), nil
}

// SetPaymentAmount edits the amount of a selected tender
func (s *Session) SetPaymentAmount(method enum.PaymentMethod, amount decimal.Decimal) (PaymentStatus, error) {
	if err := s.requirePayment(); err != nil {
		return PaymentStatus{}, err
	}
	if err := s.payment.SetAmount(method, amount); err != nil {
		return PaymentStatus{}, err
	}
	return s.payment.Status(), nil
}

// SetPaymentReference edits the reference code of a selected tender
func (s *Session) SetPaymentReference(method enum.PaymentMethod, code string) (PaymentStatus, error) {
	if err := s.requirePayment(); err != nil {
		return PaymentStatus{}, err
	}
	if err := s.payment.SetReference(method, code); err != nil {
		return PaymentStatus{}, err
	}
	return s.payment.Status(), nil
}

// SetRemarks stores order remarks
func (s *Session) SetRemarks(remarks string) (PaymentStatus, error) {
	if err := s.requirePayment(); err != nil {
		return PaymentStatus{}, err
	}
	s.payment.SetRemarks(remarks)
	return s.payment.Status(), nil
}

// PaymentStatus reports the reconciliation state
func (s *Session) PaymentStatus() (PaymentStatus, error) {
	if err := s.requirePayment(); err != nil {
		return PaymentStatus{}, err
	}
	return s.payment.Status(), nil
}

// ConfirmPayment validates the tenders without building an order
func (s *Session) ConfirmPayment() ([]entity.PaymentDetail, error) {
	if err := s.requirePayment(); err != nil {
		return nil, err
	}
	return s.payment.Confirm()
}

// BuildSubmission assembles the order for the backend. Nothing is mutated;
// call Complete once the backend accepts it so a failed submission can be retried.
func (s *Session) BuildSubmission(invoiceType enum.InvoiceType) (*entity.OrderSubmission, error) {
	if s.customer == nil {
		return nil, ErrNoCustomer
	}
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := s.requirePayment(); err != nil {
		return nil, err
	}

	totals := s.Totals().Rounded()
	switch invoiceType {
	case enum.InvoiceTypeTax:
	case enum.InvoiceTypeAbbreviated:
		if totals.GrandTotal.GreaterThan(s.abbreviatedLimit) {
			return nil, ErrAbbreviatedLimit
		}
	default:
		return nil, ErrInvoiceType
	}

	payments, err := s.payment.Confirm()
	if err != nil {
		return nil, err
	}

	items := s.cart.Items()
	lines := make([]entity.SubmissionLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, entity.SubmissionLine{
			ItemCode: item.ItemCode,
			Quantity: item.Quantity,
			Rate:     RoundMoney(item.UnitPrice),
		})
	}

	sub := &entity.OrderSubmission{
		CustomerRef:     s.customer.Ref(),
		Lines:           lines,
		DiscountAmount:  decimal.Zero,
		DiscountPercent: decimal.Zero,
		RedeemedPoints:  s.redemption.Clamp(s.customer).RedeemedPoints,
		Payments:        payments,
		Remarks:         s.payment.Remarks(),
		InvoiceType:     invoiceType,
		GrandTotal:      totals.GrandTotal,
	}
	if s.discount.Type == enum.DiscountTypePercent {
		sub.DiscountPercent = s.discount.Amount
	} else {
		sub.DiscountAmount = RoundMoney(s.discount.Amount)
	}
	return sub, nil
}

// Complete resets the whole session after a successful submission
func (s *Session) Complete() {
	s.ClearCart()
	s.ClearCustomer()
}

// Snapshot returns the cart, rounded totals and payment status
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Items:      s.cart.Items(),
		ItemCount:  s.cart.Len(),
		Totals:     s.Totals().Rounded(),
		Discount:   s.discount,
		Redemption: s.redemption,
		Customer:   s.Customer(),
	}
	if s.paymentOpen {
		s.payment.SetGrandTotal(s.Totals().GrandTotal)
		status := s.payment.Status()
		snap.Payment = &status
	}
	return snap
}

// resanitize re-clamps the discount after the subtotal moved and keeps an
// open payment step aligned with the new grand total.
func (s *Session) resanitize() {
	s.discount = s.discount.Sanitize(s.cart.Subtotal())
	if s.paymentOpen {
		if s.cart.IsEmpty() {
			s.closePayment()
			return
		}
		s.payment.SetGrandTotal(s.Totals().GrandTotal)
	}
}

func (s *Session) requirePayment() error {
	if !s.paymentOpen {
		return ErrPaymentNotStarted
	}
	// Customer or discount edits reach the total without passing through resanitize.
	s.payment.SetGrandTotal(s.Totals().GrandTotal)
	return nil
}

func (s *Session) closePayment() {
	s.payment.Reset()
	s.payment.SetGrandTotal(decimal.Zero)
	s.paymentOpen = false
}
