package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/config"
	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc       *CheckoutService
	customers *CustomerService
	orders    *mockOrderRepository
	printer   *printer.BufferPrinter
	term      *terminal.Terminal
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	orders := &mockOrderRepository{result: &entity.SubmissionResult{InvoiceRef: "SINV-0001", InvoiceURL: "https://erp.example.com/inv/SINV-0001"}}
	buf := &printer.BufferPrinter{}
	products := NewProductService(&mockProductRepository{products: catalog()}, time.Hour)
	printSvc := NewPrinterService(buf, config.PrinterConfig{StoreName: "Himalaya Mart", Width: 32})
	return &checkoutFixture{
		svc:       NewCheckoutService(products, orders, printSvc),
		customers: NewCustomerService(&mockCustomerRepository{}),
		orders:    orders,
		printer:   buf,
		term:      openTerminal(t),
	}
}

func (f *checkoutFixture) readyToPay(t *testing.T, itemCode string) {
	t.Helper()
	_, err := f.svc.AddItem(context.Background(), f.term, itemCode)
	require.NoError(t, err)
	_, err = f.customers.SelectCustomer(f.term, entity.WalkInCustomerName)
	require.NoError(t, err)
	_, err = f.svc.BeginPayment(f.term)
	require.NoError(t, err)
}

func appCode(err error) int {
	return apperror.GetAppError(err).Code
}

func TestCheckoutService_AddRespectsStock(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.term, "TEA-500")
	require.NoError(t, err)
	snap, err := f.svc.Scan(ctx, f.term, "8801234500011")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)

	_, err = f.svc.AddItem(ctx, f.term, "TEA-500")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appCode(err))
	assert.Equal(t, `Only 2 units of "Ilam Green Tea 500g" available in stock.`, err.Error())
	assert.Equal(t, 2, f.svc.Cart(f.term).Items[0].Quantity)

	_, err = f.svc.AddItem(ctx, f.term, "SOAP-1")
	require.Error(t, err)
	assert.Equal(t, MsgOutOfStock, err.Error())

	_, err = f.svc.Scan(ctx, f.term, "0000")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appCode(err))
}

func TestCheckoutService_LineEdits(t *testing.T) {
	f := newCheckoutFixture(t)
	snap, err := f.svc.AddItem(context.Background(), f.term, "RICE-5")
	require.NoError(t, err)
	id := snap.Items[0].OrderID

	snap, err = f.svc.Increment(f.term, id)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Items[0].Quantity)

	snap, err = f.svc.SetPrice(f.term, id, "1000")
	require.NoError(t, err)
	assert.True(t, snap.Totals.Subtotal.Equal(dec("2000")))

	for _, raw := range []string{"abc", "12.5.3", "", "-40"} {
		snap, err = f.svc.SetPrice(f.term, id, raw)
		require.NoError(t, err, raw)
		assert.True(t, snap.Items[0].UnitPrice.IsZero(), "%q -> %s", raw, snap.Items[0].UnitPrice)
	}

	snap, err = f.svc.SetPrice(f.term, id, "1200")
	require.NoError(t, err)
	assert.True(t, snap.Items[0].UnitPrice.Equal(dec("1200")))

	snap, err = f.svc.Decrement(f.term, id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Items[0].Quantity)

	snap, err = f.svc.Remove(f.term, id)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)

	_, err = f.svc.Increment(f.term, uuid.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appCode(err))
}

func TestCheckoutService_Discount(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	snap, err := f.svc.AddItem(ctx, f.term, "RICE-5")
	require.NoError(t, err)
	_, err = f.svc.Increment(f.term, snap.Items[0].OrderID)
	require.NoError(t, err)

	amount := "Rs 200"
	snap, err = f.svc.SetDiscount(f.term, "flat", &amount)
	require.NoError(t, err)
	assert.True(t, snap.Totals.TotalDiscount.Equal(dec("200")))
	assert.True(t, snap.Totals.VAT.Equal(dec("286")))
	assert.True(t, snap.Totals.GrandTotal.Equal(dec("2486")))

	garbled := "1.2.3"
	snap, err = f.svc.SetDiscount(f.term, "", &garbled)
	require.NoError(t, err)
	assert.True(t, snap.Discount.Amount.Equal(dec("200")))

	_, err = f.svc.SetDiscount(f.term, "bogus", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appCode(err))
}

func TestCheckoutService_PaymentRequiresCustomerAndItems(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.BeginPayment(f.term)
	require.Error(t, err)
	assert.Equal(t, MsgSelectCustomer, err.Error())

	_, err = f.customers.SelectCustomer(f.term, entity.WalkInCustomerName)
	require.NoError(t, err)
	_, err = f.svc.BeginPayment(f.term)
	require.Error(t, err)
	assert.Equal(t, MsgNoOrders, err.Error())
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(err))

	_, err = f.svc.TogglePayment(f.term, "Cash")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appCode(err))
}

func TestCheckoutService_PaymentEdits(t *testing.T) {
	f := newCheckoutFixture(t)
	f.readyToPay(t, "RICE-5")

	view, err := f.svc.TogglePayment(f.term, "cash")
	require.NoError(t, err)
	require.Len(t, view.Status.Entries, 1)
	assert.True(t, view.Status.Entries[0].Amount.Equal(dec("1356")))
	assert.Equal(t, enum.PaymentMethods(), view.Methods)

	negative := dec("-5")
	_, err = f.svc.EditPayment(f.term, "Cash", &EditPaymentInput{Amount: &negative})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appCode(err))

	_, err = f.svc.EditPayment(f.term, "eSewa", &EditPaymentInput{Amount: &negative})
	require.Error(t, err)

	_, err = f.svc.TogglePayment(f.term, "Bitcoin")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appCode(err))

	short := dec("1000")
	ref := " TXN-42 "
	view, err = f.svc.EditPayment(f.term, "Cash", &EditPaymentInput{Amount: &short, ReferenceCode: &ref})
	require.NoError(t, err)
	assert.Equal(t, "TXN-42", view.Status.Entries[0].ReferenceCode)
	assert.True(t, view.Status.Remaining.Equal(dec("356")))

	_, err = f.svc.ConfirmPayment(f.term)
	require.Error(t, err)
	assert.Equal(t, MsgBalanceRemaining, err.Error())

	view, err = f.svc.TogglePayment(f.term, "eSewa")
	require.NoError(t, err)
	assert.True(t, view.Status.Entries[1].Amount.Equal(dec("356")))
	_, err = f.svc.ConfirmPayment(f.term)
	require.NoError(t, err)

	f.svc.CancelPayment(f.term)
	_, err = f.svc.Payment(f.term)
	require.Error(t, err)
	assert.Len(t, f.svc.Cart(f.term).Items, 1)
}

func TestCheckoutService_SubmitCompletesSale(t *testing.T) {
	f := newCheckoutFixture(t)
	f.readyToPay(t, "RICE-5")
	_, err := f.svc.TogglePayment(f.term, "Cash")
	require.NoError(t, err)
	_, err = f.svc.SetRemarks(f.term, "gift wrap")
	require.NoError(t, err)

	out, err := f.svc.Submit(context.Background(), f.term, "Tax Invoice")
	require.NoError(t, err)
	assert.Equal(t, "SINV-0001", out.Invoice)
	assert.True(t, out.Printed)
	assert.Equal(t, "Himalaya Mart", out.Receipt.Header.StoreName)
	assert.Equal(t, "cashier@example.com", out.Receipt.Cashier)
	assert.True(t, out.Receipt.Total.Equal(dec("1356")))
	assert.Len(t, f.printer.Jobs(), 1)

	require.Len(t, f.orders.submissions, 1)
	sub := f.orders.submissions[0]
	assert.Equal(t, entity.WalkInCustomerName, sub.CustomerRef)
	assert.Equal(t, enum.InvoiceTypeTax, sub.InvoiceType)
	assert.Equal(t, "gift wrap", sub.Remarks)
	require.Len(t, sub.Lines, 1)
	assert.Equal(t, "RICE-5", sub.Lines[0].ItemCode)

	snap := f.svc.Cart(f.term)
	assert.Empty(t, snap.Items)
	assert.Nil(t, snap.Customer)
	assert.Nil(t, snap.Payment)
}

func TestCheckoutService_SubmitFailureKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.readyToPay(t, "RICE-5")
	_, err := f.svc.TogglePayment(f.term, "Cash")
	require.NoError(t, err)

	f.orders.err = apperror.NewBackendError("Failed to process payment.", errors.New("502"))
	_, err = f.svc.Submit(context.Background(), f.term, "Tax Invoice")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, appCode(err))

	snap := f.svc.Cart(f.term)
	assert.Len(t, snap.Items, 1)
	require.NotNil(t, snap.Payment)
	assert.Len(t, snap.Payment.Entries, 1)

	f.orders.err = nil
	_, err = f.svc.Submit(context.Background(), f.term, "Tax Invoice")
	require.NoError(t, err)
	assert.Len(t, f.orders.submissions, 2)
}

func TestCheckoutService_SubmitPrinterFailureStillSucceeds(t *testing.T) {
	f := newCheckoutFixture(t)
	f.printer.Err = errors.New("paper out")
	f.readyToPay(t, "RICE-5")
	_, err := f.svc.TogglePayment(f.term, "Cash")
	require.NoError(t, err)

	out, err := f.svc.Submit(context.Background(), f.term, "Tax Invoice")
	require.NoError(t, err)
	assert.False(t, out.Printed)
	assert.Empty(t, f.svc.Cart(f.term).Items)
}

func TestCheckoutService_AbbreviatedLimit(t *testing.T) {
	f := newCheckoutFixture(t)
	f.readyToPay(t, "TV-55")

	view, err := f.svc.TogglePayment(f.term, "Bank")
	require.NoError(t, err)
	assert.Equal(t, []enum.InvoiceType{enum.InvoiceTypeTax}, view.InvoiceTypes)

	_, err = f.svc.Submit(context.Background(), f.term, "abt")
	require.Error(t, err)
	assert.Equal(t, MsgAbbreviated, err.Error())
	assert.Empty(t, f.orders.submissions)

	_, err = f.svc.Submit(context.Background(), f.term, "")
	require.Error(t, err)
	assert.Equal(t, MsgInvoiceType, err.Error())
}

func TestTranslateCheckoutError_PassesUnknownErrors(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, translateCheckoutError(boom))
	assert.Nil(t, translateCheckoutError(nil))
	assert.ErrorIs(t, translateCheckoutError(checkout.ErrNoPayment), checkout.ErrNoPayment)
}
