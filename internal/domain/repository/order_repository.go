package repository

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

// OrderRepository submits finalized checkouts to the remote backend
type OrderRepository interface {
	SubmitOrder(ctx context.Context, sess *entity.SessionContext, sub *entity.OrderSubmission) (*entity.SubmissionResult, error)
}

// InvoiceRepository defines the past-invoice operations of the remote backend
type InvoiceRepository interface {
	// ListInvoices returns invoices for customer, or the recent ones when customer is empty
	ListInvoices(ctx context.Context, sess *entity.SessionContext, customer string) ([]entity.Invoice, error)
	PrintInvoice(ctx context.Context, sess *entity.SessionContext, invoiceName string) (string, error)
	CancelInvoice(ctx context.Context, sess *entity.SessionContext, invoiceName, remarks string) (*entity.CancelInvoiceResult, error)
}
