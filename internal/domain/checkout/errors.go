package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfStock        = errors.New("checkout: item is out of stock")
	ErrLineNotFound      = errors.New("checkout: cart line not found")
	ErrMissingIdentity   = errors.New("checkout: product has neither item code nor barcode")
	ErrUnknownMethod     = errors.New("checkout: unknown payment method")
	ErrMethodNotSelected = errors.New("checkout: payment method not selected")
	ErrInvalidAmount     = errors.New("checkout: payment amount must be a non-negative number")
	ErrBalanceRemaining  = errors.New("checkout: remaining balance must be 0 or less")
	ErrNoPayment         = errors.New("checkout: no payment amount entered")
	ErrNoCustomer        = errors.New("checkout: no customer selected")
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrPaymentNotStarted = errors.New("checkout: payment has not been started")
	ErrInvoiceType       = errors.New("checkout: invoice type is required")
	ErrAbbreviatedLimit  = errors.New("checkout: abbreviated invoice not allowed for this total")
)

// StockLimitError is returned when a quantity change would exceed the
// stock ceiling captured when the line was added.
type StockLimitError struct {
	Name      string
	Available int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("checkout: only %d units of %q available in stock", e.Available, e.Name)
}
