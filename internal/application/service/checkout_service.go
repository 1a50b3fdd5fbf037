package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/metrics"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CheckoutService drives a terminal's cart, pricing and payment and hands
// the finished sale to the backend.
type CheckoutService struct {
	products  *ProductService
	orderRepo repository.OrderRepository
	printer   *PrinterService
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	products *ProductService,
	orderRepo repository.OrderRepository,
	printer *PrinterService,
) *CheckoutService {
	return &CheckoutService{
		products:  products,
		orderRepo: orderRepo,
		printer:   printer,
	}
}

// Cart returns the current cart snapshot
func (s *CheckoutService) Cart(term *terminal.Terminal) checkout.Snapshot {
	var snap checkout.Snapshot
	_ = term.Do(func(sess *checkout.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	return snap
}

// AddItem adds one unit of the catalog product with itemCode
func (s *CheckoutService) AddItem(ctx context.Context, term *terminal.Terminal, itemCode string) (checkout.Snapshot, error) {
	product, err := s.products.FindByCode(ctx, term, itemCode)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	return s.addProduct(term, product)
}

// Scan adds one unit of the product whose barcode matches exactly
func (s *CheckoutService) Scan(ctx context.Context, term *terminal.Terminal, barcode string) (checkout.Snapshot, error) {
	product, err := s.products.FindByBarcode(ctx, term, barcode)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	return s.addProduct(term, product)
}

func (s *CheckoutService) addProduct(term *terminal.Terminal, product entity.Product) (checkout.Snapshot, error) {
	return s.mutate(term, func(sess *checkout.Session) error {
		_, err := sess.AddProduct(product)
		return err
	})
}

// Increment raises a line's quantity by one
func (s *CheckoutService) Increment(term *terminal.Terminal, orderID uuid.UUID) (checkout.Snapshot, error) {
	return s.mutate(term, func(sess *checkout.Session) error {
		_, err := sess.IncrementLine(orderID)
		return err
	})
}

// Decrement lowers a line's quantity by one, dropping it at zero
func (s *CheckoutService) Decrement(term *terminal.Terminal, orderID uuid.UUID) (checkout.Snapshot, error) {
	return s.mutate(term, func(sess *checkout.Session) error {
		_, _, err := sess.DecrementLine(orderID)
		return err
	})
}

// Remove drops a line
func (s *CheckoutService) Remove(term *terminal.Terminal, orderID uuid.UUID) (checkout.Snapshot, error) {
	return s.mutate(term, func(sess *checkout.Session) error {
		return sess.RemoveLine(orderID)
	})
}

// SetPrice overrides a line's unit price from the typed text. Text that
// is not a number sets the price to 0.
func (s *CheckoutService) SetPrice(term *terminal.Terminal, orderID uuid.UUID, rawPrice string) (checkout.Snapshot, error) {
	price := checkout.ParsePriceInput(rawPrice)
	return s.mutate(term, func(sess *checkout.Session) error {
		_, err := sess.SetLinePrice(orderID, price)
		return err
	})
}

// ClearCart empties the cart and closes any payment step
func (s *CheckoutService) ClearCart(term *terminal.Terminal) checkout.Snapshot {
	snap, _ := s.mutate(term, func(sess *checkout.Session) error {
		sess.ClearCart()
		return nil
	})
	return snap
}

// SetDiscount applies the operator's discount entry. rawAmount is the text
// typed into the discount field; an entry with more than one decimal point
// is ignored and the previous discount stays.
func (s *CheckoutService) SetDiscount(term *terminal.Terminal, discountType string, rawAmount *string) (checkout.Snapshot, error) {
	var typ *enum.DiscountType
	if discountType != "" {
		t, err := enum.ParseDiscountType(discountType)
		if err != nil {
			return checkout.Snapshot{}, apperror.NewBadRequestError("Discount type must be flat or percent")
		}
		typ = &t
	}

	return s.mutate(term, func(sess *checkout.Session) error {
		if typ != nil && *typ != sess.Discount().Type {
			sess.SetDiscountType(*typ)
		}
		if rawAmount != nil {
			amount, ok := checkout.ParseAmountInput(*rawAmount)
			if ok {
				d := sess.Discount()
				d.Amount = amount
				sess.SetDiscount(d)
			}
		}
		return nil
	})
}

// SetRedeemedPoints applies the points field. Non-digits are dropped and the
// value is clamped to the customer's balance.
func (s *CheckoutService) SetRedeemedPoints(term *terminal.Terminal, rawPoints string) (checkout.Snapshot, error) {
	return s.mutate(term, func(sess *checkout.Session) error {
		sess.SetRedeemedPoints(checkout.ParsePointsInput(rawPoints))
		return nil
	})
}

// PaymentView is the payment step as the terminal shows it
type PaymentView struct {
	Status       checkout.PaymentStatus `json:"status"`
	Methods      []enum.PaymentMethod   `json:"methods"`
	InvoiceTypes []enum.InvoiceType     `json:"invoice_types"`
}

// BeginPayment opens the payment step
func (s *CheckoutService) BeginPayment(term *terminal.Terminal) (*PaymentView, error) {
	return s.payment(term, func(sess *checkout.Session) error {
		_, err := sess.BeginPayment()
		return err
	})
}

// Payment returns the open payment step
func (s *CheckoutService) Payment(term *terminal.Terminal) (*PaymentView, error) {
	return s.payment(term, nil)
}

// CancelPayment closes the payment step and keeps the cart
func (s *CheckoutService) CancelPayment(term *terminal.Terminal) {
	_ = term.Do(func(sess *checkout.Session) error {
		sess.CancelPayment()
		return nil
	})
}

// TogglePayment selects or deselects a tender
func (s *CheckoutService) TogglePayment(term *terminal.Terminal, method string) (*PaymentView, error) {
	m, err := parseMethod(method)
	if err != nil {
		return nil, err
	}
	return s.payment(term, func(sess *checkout.Session) error {
		_, err := sess.TogglePayment(m)
		return err
	})
}

// EditPaymentInput carries tender edits. Nil fields are left alone.
type EditPaymentInput struct {
	Amount        *decimal.Decimal
	ReferenceCode *string
}

// EditPayment changes the amount or reference of a selected tender
func (s *CheckoutService) EditPayment(term *terminal.Terminal, method string, input *EditPaymentInput) (*PaymentView, error) {
	m, err := parseMethod(method)
	if err != nil {
		return nil, err
	}
	return s.payment(term, func(sess *checkout.Session) error {
		if input.Amount != nil {
			if _, err := sess.SetPaymentAmount(m, *input.Amount); err != nil {
				return err
			}
		}
		if input.ReferenceCode != nil {
			if _, err := sess.SetPaymentReference(m, *input.ReferenceCode); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetRemarks stores the order remarks
func (s *CheckoutService) SetRemarks(term *terminal.Terminal, remarks string) (*PaymentView, error) {
	return s.payment(term, func(sess *checkout.Session) error {
		_, err := sess.SetRemarks(remarks)
		return err
	})
}

// ConfirmPayment checks the tenders settle the bill. On success the view
// lists the invoice types the cashier may choose from.
func (s *CheckoutService) ConfirmPayment(term *terminal.Terminal) (*PaymentView, error) {
	return s.payment(term, func(sess *checkout.Session) error {
		_, err := sess.ConfirmPayment()
		return err
	})
}

// SubmitOutput is the result of a completed sale
type SubmitOutput struct {
	Invoice    string          `json:"invoice"`
	InvoiceURL string          `json:"invoice_url"`
	Receipt    *entity.Receipt `json:"receipt"`
	Printed    bool            `json:"printed"`
}

// Submit sends the sale to the backend as invoiceType. The terminal is held
// for the duration so the cart cannot change under the request. Cart and
// payment survive a failure so the cashier can retry; on success the whole
// session resets.
func (s *CheckoutService) Submit(ctx context.Context, term *terminal.Terminal, invoiceType string) (*SubmitOutput, error) {
	typ, ok := enum.ParseInvoiceType(invoiceType)
	if !ok {
		return nil, translateCheckoutError(checkout.ErrInvoiceType)
	}

	var out *SubmitOutput
	err := term.Do(func(sess *checkout.Session) error {
		sub, err := sess.BuildSubmission(typ)
		if err != nil {
			return translateCheckoutError(err)
		}

		result, err := s.orderRepo.SubmitOrder(ctx, term.Backend(), sub)
		if err != nil {
			metrics.CheckoutsTotal.WithLabelValues("failed", typ.String()).Inc()
			log.WithFields(log.Fields{
				"terminal_id":  term.ID.String(),
				"invoice_type": typ.String(),
				"grand_total":  sub.GrandTotal.String(),
				"error":        err.Error(),
			}).Error("order submission failed")
			return err
		}

		out = &SubmitOutput{
			Invoice:    result.InvoiceRef,
			InvoiceURL: result.InvoiceURL,
			Receipt:    buildReceipt(sess.Snapshot(), sub, result, term.Email, s.printer.Header()),
		}
		sess.Complete()

		metrics.CheckoutsTotal.WithLabelValues("completed", typ.String()).Inc()
		metrics.CheckoutAmount.Observe(sub.GrandTotal.InexactFloat64())
		log.WithFields(log.Fields{
			"terminal_id": term.ID.String(),
			"invoice":     result.InvoiceRef,
			"grand_total": sub.GrandTotal.String(),
		}).Info("order submitted")
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the sale is recorded; a jammed printer must not fail it
	if s.printer.Configured() {
		out.Printed = s.printer.PrintReceipt(ctx, out.Receipt) == nil
	}
	return out, nil
}

func (s *CheckoutService) mutate(term *terminal.Terminal, fn func(sess *checkout.Session) error) (checkout.Snapshot, error) {
	var snap checkout.Snapshot
	err := term.Do(func(sess *checkout.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		return checkout.Snapshot{}, translateCheckoutError(err)
	}
	return snap, nil
}

func (s *CheckoutService) payment(term *terminal.Terminal, fn func(sess *checkout.Session) error) (*PaymentView, error) {
	var view *PaymentView
	err := term.Do(func(sess *checkout.Session) error {
		if fn != nil {
			if err := fn(sess); err != nil {
				return err
			}
		}
		status, err := sess.PaymentStatus()
		if err != nil {
			return err
		}
		view = &PaymentView{
			Status:       status,
			Methods:      enum.PaymentMethods(),
			InvoiceTypes: sess.AllowedInvoiceTypes(),
		}
		return nil
	})
	if err != nil {
		return nil, translateCheckoutError(err)
	}
	return view, nil
}

func parseMethod(raw string) (enum.PaymentMethod, error) {
	m, ok := enum.ParsePaymentMethod(raw)
	if !ok {
		return "", translateCheckoutError(checkout.ErrUnknownMethod)
	}
	return m, nil
}

func buildReceipt(snap checkout.Snapshot, sub *entity.OrderSubmission, result *entity.SubmissionResult, cashier string, header entity.ReceiptHeader) *entity.Receipt {
	r := &entity.Receipt{
		Header:      header,
		InvoiceNo:   result.InvoiceRef,
		InvoiceType: sub.InvoiceType.String(),
		InvoiceURL:  result.InvoiceURL,
		Date:        time.Now().Format("2006-01-02 15:04"),
		Cashier:     cashier,
		SubTotal:    snap.Totals.Subtotal,
		Discount:    snap.Totals.TotalDiscount,
		VAT:         snap.Totals.VAT,
		Total:       snap.Totals.GrandTotal,
		Remarks:     sub.Remarks,
	}
	if snap.Customer != nil {
		r.Customer = snap.Customer.FullName
	}
	for _, item := range snap.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: checkout.RoundMoney(item.UnitPrice),
			Total:     checkout.RoundMoney(item.LineTotal()),
		})
	}
	paid := decimal.Zero
	for _, p := range sub.Payments {
		r.Payments = append(r.Payments, entity.ReceiptPayment{
			Method:    p.Method.String(),
			Amount:    p.Amount,
			Reference: p.ReferenceCode,
		})
		paid = paid.Add(p.Amount)
	}
	r.Paid = checkout.RoundMoney(paid)
	if change := r.Paid.Sub(r.Total); change.IsPositive() {
		r.Change = change
	}
	return r
}
