package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/pagination"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// InvoiceService handles past-invoice lookup, printing, export and cancellation
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	bounds      pagination.Bounds
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, bounds pagination.Bounds) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo, bounds: bounds}
}

// InvoiceFilter narrows the invoice list. An empty Type keeps both kinds.
type InvoiceFilter struct {
	Customer   string
	Type       enum.InvoiceType
	Search     string
	Pagination *pagination.PaginationParams
}

// ListInvoices fetches the invoices and returns one page of those matching filter
func (s *InvoiceService) ListInvoices(ctx context.Context, term *terminal.Terminal, filter *InvoiceFilter) (*pagination.PaginatedResult[entity.Invoice], error) {
	params := filter.Pagination
	if params == nil {
		params = &pagination.PaginationParams{}
	}
	params.ValidateWithin(s.bounds)

	invoices, err := s.filtered(ctx, term, filter)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(invoices, params), nil
}

// Export renders every invoice matching filter as an xlsx workbook
func (s *InvoiceService) Export(ctx context.Context, term *terminal.Terminal, filter *InvoiceFilter) ([]byte, error) {
	invoices, err := s.filtered(ctx, term, filter)
	if err != nil {
		return nil, err
	}
	return InvoicesWorkbook(invoices)
}

// PrintInvoice returns the backend's printable URL for invoiceName
func (s *InvoiceService) PrintInvoice(ctx context.Context, term *terminal.Terminal, invoiceName string) (string, error) {
	invoiceName = strings.TrimSpace(invoiceName)
	if invoiceName == "" {
		return "", apperror.NewBadRequestError("Invoice name is required")
	}
	return s.invoiceRepo.PrintInvoice(ctx, term.Backend(), invoiceName)
}

// CancelInvoice asks the backend to cancel invoiceName. Remarks are required.
// A refusal returns a 422 carrying the backend's message.
func (s *InvoiceService) CancelInvoice(ctx context.Context, term *terminal.Terminal, invoiceName, remarks string) (*entity.CancelInvoiceResult, error) {
	invoiceName = strings.TrimSpace(invoiceName)
	remarks = strings.TrimSpace(remarks)
	if invoiceName == "" {
		return nil, apperror.NewBadRequestError("Invoice name is required")
	}
	if remarks == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "remarks", Message: "Please enter remarks for cancellation."},
		})
	}

	result, err := s.invoiceRepo.CancelInvoice(ctx, term.Backend(), invoiceName, remarks)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		log.WithFields(log.Fields{"terminal_id": term.ID.String(), "invoice": invoiceName, "reason": result.Message}).Warn("invoice cancellation refused")
		return nil, apperror.NewReconciliationError(result.Message, nil)
	}

	log.WithFields(log.Fields{"terminal_id": term.ID.String(), "invoice": invoiceName}).Info("invoice cancelled")
	return result, nil
}

func (s *InvoiceService) filtered(ctx context.Context, term *terminal.Terminal, filter *InvoiceFilter) ([]entity.Invoice, error) {
	all, err := s.invoiceRepo.ListInvoices(ctx, term.Backend(), filter.Customer)
	if err != nil {
		return nil, err
	}
	return FilterInvoices(all, filter.Type, filter.Search), nil
}

// FilterInvoices keeps invoices of type typ (any type when empty) whose
// name, tax id, customer or customer name contains query.
func FilterInvoices(invoices []entity.Invoice, typ enum.InvoiceType, query string) []entity.Invoice {
	out := make([]entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if typ != "" && inv.InvoiceType != typ {
			continue
		}
		if !inv.Matches(query) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

var invoiceColumns = []interface{}{"Invoice", "Type", "Customer", "Full Name", "Tax ID", "Posting Date", "Status", "Grand Total"}

// InvoicesWorkbook writes invoices to a single-sheet xlsx file
func InvoicesWorkbook(invoices []entity.Invoice) ([]byte, error) {
	const sheet = "Invoices"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &invoiceColumns); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	// cosmetic only; the export still goes out unstyled
	if err := styleHeader(f, sheet); err != nil {
		log.WithError(err).Warn("invoice export header style failed")
	}

	for i, inv := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		row := []interface{}{
			inv.Name,
			inv.InvoiceType.String(),
			inv.Customer,
			inv.CustomFullName,
			inv.TaxID,
			inv.PostingDate,
			inv.Status,
			inv.GrandTotal.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return buf.Bytes(), nil
}

func styleHeader(f *excelize.File, sheet string) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "H", 18); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return nil
}
