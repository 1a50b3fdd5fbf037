package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/metrics"
)

// Messages shown to the cashier
const (
	MsgOutOfStock       = "This item is out of stock!"
	MsgSelectCustomer   = "Please select a customer"
	MsgNoOrders         = "No orders to send"
	MsgBalanceRemaining = "Remaining balance must be 0 or less (return allowed)."
	MsgNoPayment        = "Enter valid payment amount."
	MsgInvalidAmount    = "Payment amount must be a non-negative number."
	MsgPaymentNotOpen   = "Start payment before entering tenders."
	MsgUnknownMethod    = "Unknown payment method."
	MsgMethodNotChosen  = "Select the payment method first."
	MsgInvoiceType      = "Please select an invoice type."
	MsgAbbreviated      = "ABT invoices are only allowed up to the abbreviated limit."
	MsgLineNotFound     = "Cart item"
)

// translateCheckoutError maps domain errors onto application errors with the
// cashier-facing wording. Unknown errors pass through.
func translateCheckoutError(err error) error {
	if err == nil {
		return nil
	}

	var stock *checkout.StockLimitError
	switch {
	case errors.As(err, &stock):
		metrics.CartRejections.WithLabelValues("stock_limit").Inc()
		return apperror.NewCapacityError(fmt.Sprintf("Only %d units of %q available in stock.", stock.Available, stock.Name), err)
	case errors.Is(err, checkout.ErrOutOfStock):
		metrics.CartRejections.WithLabelValues("out_of_stock").Inc()
		return apperror.NewCapacityError(MsgOutOfStock, err)
	case errors.Is(err, checkout.ErrLineNotFound):
		return apperror.Wrap(http.StatusNotFound, MsgLineNotFound+" not found", err)
	case errors.Is(err, checkout.ErrMissingIdentity):
		return apperror.Wrap(http.StatusBadRequest, "Product has no item code or barcode.", err)
	case errors.Is(err, checkout.ErrNoCustomer):
		return apperror.NewReconciliationError(MsgSelectCustomer, err)
	case errors.Is(err, checkout.ErrEmptyCart):
		return apperror.NewReconciliationError(MsgNoOrders, err)
	case errors.Is(err, checkout.ErrBalanceRemaining):
		return apperror.NewReconciliationError(MsgBalanceRemaining, err)
	case errors.Is(err, checkout.ErrNoPayment):
		return apperror.NewReconciliationError(MsgNoPayment, err)
	case errors.Is(err, checkout.ErrInvalidAmount):
		return apperror.Wrap(http.StatusBadRequest, MsgInvalidAmount, err)
	case errors.Is(err, checkout.ErrPaymentNotStarted):
		return apperror.Wrap(http.StatusConflict, MsgPaymentNotOpen, err)
	case errors.Is(err, checkout.ErrUnknownMethod):
		return apperror.Wrap(http.StatusBadRequest, MsgUnknownMethod, err)
	case errors.Is(err, checkout.ErrMethodNotSelected):
		return apperror.Wrap(http.StatusConflict, MsgMethodNotChosen, err)
	case errors.Is(err, checkout.ErrInvoiceType):
		return apperror.Wrap(http.StatusBadRequest, MsgInvoiceType, err)
	case errors.Is(err, checkout.ErrAbbreviatedLimit):
		return apperror.NewReconciliationError(MsgAbbreviated, err)
	}
	return err
}
