package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/shopspring/decimal"
)

type mockAuthRepository struct {
	sess       *entity.SessionContext
	err        error
	logoutHits atomic.Int32
}

func (m *mockAuthRepository) Login(_ context.Context, email, _ string) (*entity.SessionContext, error) {
	if m.err != nil {
		return nil, m.err
	}
	sess := *m.sess
	sess.Email = email
	return &sess, nil
}

func (m *mockAuthRepository) Logout(_ context.Context, sess *entity.SessionContext) {
	m.logoutHits.Add(1)
	sess.Clear()
}

type mockProductRepository struct {
	products []entity.Product
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (m *mockProductRepository) ListItems(context.Context, *entity.SessionContext) ([]entity.Product, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

type mockCustomerRepository struct {
	m         sync.Mutex
	customers []entity.Customer
	created   []entity.NewCustomer
	queries   []string
	err       error
}

func (m *mockCustomerRepository) SearchCustomers(_ context.Context, _ *entity.SessionContext, term string) ([]entity.Customer, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.queries = append(m.queries, term)
	if m.err != nil {
		return nil, m.err
	}
	return m.customers, nil
}

func (m *mockCustomerRepository) CreateCustomer(_ context.Context, _ *entity.SessionContext, in entity.NewCustomer) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, in)
	return nil
}

type mockOrderRepository struct {
	m           sync.Mutex
	submissions []*entity.OrderSubmission
	result      *entity.SubmissionResult
	err         error
}

func (m *mockOrderRepository) SubmitOrder(_ context.Context, _ *entity.SessionContext, sub *entity.OrderSubmission) (*entity.SubmissionResult, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.submissions = append(m.submissions, sub)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockInvoiceRepository struct {
	invoices   []entity.Invoice
	printURL   string
	cancel     *entity.CancelInvoiceResult
	err        error
	customer   string
	cancelled  string
	cancelNote string
}

func (m *mockInvoiceRepository) ListInvoices(_ context.Context, _ *entity.SessionContext, customer string) ([]entity.Invoice, error) {
	m.customer = customer
	if m.err != nil {
		return nil, m.err
	}
	return m.invoices, nil
}

func (m *mockInvoiceRepository) PrintInvoice(context.Context, *entity.SessionContext, string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.printURL, nil
}

func (m *mockInvoiceRepository) CancelInvoice(_ context.Context, _ *entity.SessionContext, name, remarks string) (*entity.CancelInvoiceResult, error) {
	m.cancelled = name
	m.cancelNote = remarks
	if m.err != nil {
		return nil, m.err
	}
	return m.cancel, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestRegistry() *terminal.Registry {
	return terminal.NewRegistry(terminal.Config{
		Checkout:       checkout.DefaultSessionConfig(),
		SearchDebounce: 20 * time.Millisecond,
		IdleTimeout:    time.Hour,
	})
}

func openTerminal(t *testing.T) *terminal.Terminal {
	t.Helper()
	r := newTestRegistry()
	term := r.Open(&entity.SessionContext{BaseURL: "https://erp.example.com", Token: "key:secret", Email: "cashier@example.com"})
	t.Cleanup(func() { r.Close(term.ID) })
	return term
}

func catalog() []entity.Product {
	return []entity.Product{
		{ItemCode: "TEA-500", Name: "Ilam Green Tea 500g", Barcode: "8801234500011", UnitPrice: dec("450"), StockQuantity: 2},
		{ItemCode: "RICE-5", Name: "Basmati Rice 5kg", Barcode: "8801234500028", UnitPrice: dec("1200"), StockQuantity: 10},
		{ItemCode: "SOAP-1", Name: "Neem Soap", Barcode: "8801234500035", UnitPrice: dec("60"), StockQuantity: 0},
		{ItemCode: "TV-55", Name: "Smart TV 55in", Barcode: "8801234500042", UnitPrice: dec("95000"), StockQuantity: 3},
	}
}
