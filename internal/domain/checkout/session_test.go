package checkout

import (
	"testing"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loyalCustomer(points int) entity.Customer {
	return entity.Customer{
		ID:               "CUST-1",
		FullName:         "Asha Rai",
		Phone:            "9800000000",
		TotalPoints:      points,
		ConversionFactor: dec("1"),
	}
}

func TestSession_DiscountReclampedWhenSubtotalDrops(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	line, err := s.AddProduct(product("A", "100", 5))
	require.NoError(t, err)
	_, err = s.IncrementLine(line.OrderID)
	require.NoError(t, err)

	s.SetDiscount(DiscountConfig{Type: enum.DiscountTypeFlat, Amount: dec("150")})
	assert.True(t, s.Discount().Amount.Equal(dec("150")))

	_, _, err = s.DecrementLine(line.OrderID)
	require.NoError(t, err)
	assert.True(t, s.Discount().Amount.Equal(dec("100")))
}

func TestSession_DiscountTypeChangeReclamps(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	_, err := s.AddProduct(product("A", "500", 5))
	require.NoError(t, err)

	s.SetDiscount(DiscountConfig{Type: enum.DiscountTypeFlat, Amount: dec("300")})
	d := s.SetDiscountType(enum.DiscountTypePercent)

	assert.Equal(t, enum.DiscountTypePercent, d.Type)
	assert.True(t, d.Amount.Equal(dec("100")))
}

func TestSession_RedemptionClampedToCustomerPoints(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	_, _ = s.AddProduct(product("A", "100", 5))

	// no customer yet
	assert.Equal(t, 0, s.SetRedeemedPoints(20).RedeemedPoints)

	s.SelectCustomer(loyalCustomer(30))
	assert.Equal(t, 30, s.SetRedeemedPoints(50).RedeemedPoints)

	s.SelectCustomer(loyalCustomer(10))
	assert.Equal(t, 10, s.Redemption().RedeemedPoints)

	s.ClearCustomer()
	assert.Equal(t, 0, s.Redemption().RedeemedPoints)
}

func TestSession_ClearCartResetsDiscountAndRedemption(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	_, _ = s.AddProduct(product("A", "100", 5))
	s.SelectCustomer(loyalCustomer(30))
	s.SetDiscount(DiscountConfig{Type: enum.DiscountTypePercent, Amount: dec("10")})
	s.SetRedeemedPoints(5)

	s.ClearCart()

	assert.Empty(t, s.Items())
	assert.Equal(t, DefaultDiscount().Type, s.Discount().Type)
	assert.True(t, s.Discount().Amount.IsZero())
	assert.Equal(t, 0, s.Redemption().RedeemedPoints)
	assert.NotNil(t, s.Customer())
}

func TestSession_BeginPaymentPreconditions(t *testing.T) {
	s := NewSession(DefaultSessionConfig())

	_, err := s.BeginPayment()
	assert.ErrorIs(t, err, ErrNoCustomer)

	s.SelectCustomer(loyalCustomer(0))
	_, err = s.BeginPayment()
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = s.TogglePayment(enum.PaymentMethodCash)
	assert.ErrorIs(t, err, ErrPaymentNotStarted)
}

func TestSession_FullCheckout(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	line, _ := s.AddProduct(product("A", "100", 5))
	_, _ = s.IncrementLine(line.OrderID)
	s.SetDiscount(DiscountConfig{Type: enum.DiscountTypeFlat, Amount: dec("50")})
	s.SelectCustomer(loyalCustomer(0))

	status, err := s.BeginPayment()
	require.NoError(t, err)
	assert.Equal(t, "169.50", status.GrandTotal.StringFixed(2))

	_, err = s.TogglePayment(enum.PaymentMethodCash)
	require.NoError(t, err)
	_, err = s.SetPaymentAmount(enum.PaymentMethodCash, dec("100"))
	require.NoError(t, err)
	status, err = s.TogglePayment(enum.PaymentMethodFonePay)
	require.NoError(t, err)
	assert.True(t, status.CanConfirm)
	_, err = s.SetPaymentReference(enum.PaymentMethodFonePay, "FP-1")
	require.NoError(t, err)
	_, err = s.SetRemarks("gift wrap")
	require.NoError(t, err)

	sub, err := s.BuildSubmission(enum.InvoiceTypeTax)
	require.NoError(t, err)
	assert.Equal(t, "9800000000", sub.CustomerRef)
	require.Len(t, sub.Lines, 1)
	assert.Equal(t, 2, sub.Lines[0].Quantity)
	assert.True(t, sub.DiscountAmount.Equal(dec("50")))
	assert.True(t, sub.DiscountPercent.IsZero())
	require.Len(t, sub.Payments, 2)
	assert.Equal(t, "FP-1", sub.Payments[1].ReferenceCode)
	assert.Equal(t, "gift wrap", sub.Remarks)

	// building does not consume the session
	assert.Len(t, s.Items(), 1)

	s.Complete()
	assert.Empty(t, s.Items())
	assert.Nil(t, s.Customer())
	assert.False(t, s.PaymentOpen())
}

func TestSession_BuildSubmissionRejectsUnderpayment(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	_, _ = s.AddProduct(product("A", "100", 5))
	s.SelectCustomer(loyalCustomer(0))
	_, err := s.BeginPayment()
	require.NoError(t, err)
	_, _ = s.TogglePayment(enum.PaymentMethodCash)
	_, _ = s.SetPaymentAmount(enum.PaymentMethodCash, dec("10"))

	_, err = s.BuildSubmission(enum.InvoiceTypeTax)
	assert.ErrorIs(t, err, ErrBalanceRemaining)
}

func TestSession_AbbreviatedInvoiceLimit(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	_, _ = s.AddProduct(product("A", "9000", 5))
	s.SelectCustomer(loyalCustomer(0))
	_, err := s.BeginPayment()
	require.NoError(t, err)
	_, _ = s.TogglePayment(enum.PaymentMethodCash)

	// 9000 + 13% VAT is above 10000
	assert.Equal(t, []enum.InvoiceType{enum.InvoiceTypeTax}, s.AllowedInvoiceTypes())
	_, err = s.BuildSubmission(enum.InvoiceTypeAbbreviated)
	assert.ErrorIs(t, err, ErrAbbreviatedLimit)

	_, err = s.BuildSubmission("")
	assert.ErrorIs(t, err, ErrInvoiceType)

	_, err = s.BuildSubmission(enum.InvoiceTypeTax)
	assert.NoError(t, err)
}

func TestSession_PercentDiscountSubmittedAsPercent(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	_, _ = s.AddProduct(product("A", "200", 5))
	s.SetDiscount(DiscountConfig{Type: enum.DiscountTypePercent, Amount: dec("10")})
	s.SelectCustomer(loyalCustomer(0))
	_, _ = s.BeginPayment()
	_, _ = s.TogglePayment(enum.PaymentMethodCash)

	sub, err := s.BuildSubmission(enum.InvoiceTypeAbbreviated)
	require.NoError(t, err)
	assert.True(t, sub.DiscountPercent.Equal(dec("10")))
	assert.True(t, sub.DiscountAmount.IsZero())
	assert.Equal(t, "203.40", sub.GrandTotal.StringFixed(2))
}

func TestSession_PaymentFollowsCartEdits(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	line, _ := s.AddProduct(product("A", "100", 5))
	s.SelectCustomer(loyalCustomer(0))
	_, err := s.BeginPayment()
	require.NoError(t, err)

	_, err = s.IncrementLine(line.OrderID)
	require.NoError(t, err)
	status, err := s.PaymentStatus()
	require.NoError(t, err)
	assert.Equal(t, "226.00", status.GrandTotal.StringFixed(2))

	require.NoError(t, s.RemoveLine(line.OrderID))
	assert.False(t, s.PaymentOpen())
}

func TestSession_SnapshotRoundsTotals(t *testing.T) {
	s := NewSession(DefaultSessionConfig())
	_, _ = s.AddProduct(product("A", "0.333", 5))

	snap := s.Snapshot()

	assert.Equal(t, 1, snap.ItemCount)
	assert.Equal(t, "0.33", snap.Totals.Subtotal.StringFixed(2))
	assert.Nil(t, snap.Payment)
}
