package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-terminal/internal/config"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/pkg/metrics"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer printer.Printer
	header  entity.ReceiptHeader
	width   int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, cfg config.PrinterConfig) *PrinterService {
	return &PrinterService{
		printer: p,
		header: entity.ReceiptHeader{
			StoreName: cfg.StoreName,
			Address:   cfg.Address1,
			Phone:     cfg.Phone,
			TaxID:     cfg.TaxID,
		},
		width: cfg.Width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// Configured reports whether a real printer is attached
func (s *PrinterService) Configured() bool {
	return s.printer.Kind() != "none"
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.Configured(),
		Connected:  s.printer.IsConnected(),
		Type:       s.printer.Kind(),
	}
}

// Header is the store header stamped on every receipt
func (s *PrinterService) Header() entity.ReceiptHeader {
	return s.header
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	ten := decimal.NewFromInt(10)
	receipt := &entity.Receipt{
		Header:    s.header,
		InvoiceNo: "TEST-001",
		Date:      time.Now().Format("2006-01-02 15:04"),
		Cashier:   "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: ten, Total: ten},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Total: ten},
		},
		SubTotal: decimal.NewFromInt(20),
		Total:    decimal.NewFromInt(20),
		Paid:     decimal.NewFromInt(20),
	}
	if receipt.Header.StoreName == "" {
		receipt.Header.StoreName = "PRINTER TEST"
	}

	if err := s.PrintReceipt(ctx, receipt); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintReceipt formats and prints r. A terminal without a printer is a no-op.
func (s *PrinterService) PrintReceipt(ctx context.Context, r *entity.Receipt) error {
	if !s.Configured() {
		return nil
	}
	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		metrics.PrintJobsTotal.WithLabelValues("failed").Inc()
		log.WithFields(log.Fields{"invoice": r.InvoiceNo, "printer": s.printer.Kind(), "error": err.Error()}).Error("receipt print failed")
		return err
	}
	metrics.PrintJobsTotal.WithLabelValues("printed").Inc()
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatReceipt converts a Receipt into ESC/POS bytes for paper width
// characters wide (32 for 58mm, 48 for 80mm).
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Wrap(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("PAN/VAT: %s", r.Header.TaxID)
	}
	if r.InvoiceType != "" {
		doc.SetBold(true).Text(r.InvoiceType).SetBold(false)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+money(r.Discount))
	}
	if r.VAT.IsPositive() {
		doc.KeyValue("VAT:", money(r.VAT))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	for _, p := range r.Payments {
		doc.KeyValue(p.Method+":", money(p.Amount))
		if p.Reference != "" {
			doc.TextF("  Ref: %s", p.Reference)
		}
	}
	if r.Paid.IsPositive() && len(r.Payments) == 0 {
		doc.KeyValue("Paid:", money(r.Paid))
	}
	if r.Change.IsPositive() {
		doc.KeyValue("Change:", money(r.Change))
	}
	if r.Remarks != "" {
		doc.Separator('-').Wrap(r.Remarks)
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter)
	if r.InvoiceURL != "" {
		doc.QRCode(r.InvoiceURL, 0)
	}
	doc.LineFeed().
		Text("Thank you for your business!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
