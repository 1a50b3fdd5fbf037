package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sangkips/pos-terminal/internal/config"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		Header:      entity.ReceiptHeader{StoreName: "Himalaya Mart", Address: "Lazimpat, Kathmandu", TaxID: "601234567"},
		InvoiceNo:   "SINV-0001",
		InvoiceType: "Tax Invoice",
		InvoiceURL:  "https://erp.example.com/inv/SINV-0001",
		Date:        "2026-10-14 10:30",
		Cashier:     "cashier@example.com",
		Customer:    "Asha Rai",
		Items: []entity.ReceiptItem{
			{Name: "Basmati Rice 5kg", Quantity: 2, UnitPrice: dec("1200"), Total: dec("2400")},
		},
		SubTotal: dec("2400"),
		Discount: dec("200"),
		VAT:      dec("286"),
		Total:    dec("2486"),
		Payments: []entity.ReceiptPayment{
			{Method: "Cash", Amount: dec("2000")},
			{Method: "eSewa", Amount: dec("500"), Reference: "ES-778"},
		},
		Paid:    dec("2500"),
		Change:  dec("14"),
		Remarks: "gift wrap",
	}
}

func TestFormatReceipt(t *testing.T) {
	data := FormatReceipt(sampleReceipt(), 32)

	for _, want := range []string{
		"Himalaya Mart",
		"PAN/VAT: 601234567",
		"Tax Invoice",
		"SINV-0001",
		"2x Basmati Rice 5kg",
		"@ 1200.00 each",
		"-200.00",
		"286.00",
		"2486.00",
		"Ref: ES-778",
		"14.00",
		"gift wrap",
		"https://erp.example.com/inv/SINV-0001",
	} {
		assert.True(t, bytes.Contains(data, []byte(want)), "receipt is missing %q", want)
	}
	assert.True(t, bytes.HasSuffix(data, []byte{printer.GS, 'V', 0x01}))
}

func TestPrinterService_NotConfigured(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), config.PrinterConfig{StoreName: "Himalaya Mart"})

	assert.False(t, svc.Configured())
	assert.NoError(t, svc.PrintReceipt(context.Background(), sampleReceipt()))

	status := svc.GetStatus()
	assert.Equal(t, "none", status.Type)
	assert.False(t, status.Connected)
}

func TestPrinterService_TestPrint(t *testing.T) {
	buf := &printer.BufferPrinter{}
	svc := NewPrinterService(buf, config.PrinterConfig{Width: 48})

	receipt, err := svc.TestPrint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PRINTER TEST", receipt.Header.StoreName)
	require.Len(t, buf.Jobs(), 1)

	buf.Err = errors.New("paper out")
	_, err = svc.TestPrint(context.Background())
	assert.ErrorIs(t, err, buf.Err)
}
