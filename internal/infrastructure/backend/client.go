package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sangkips/pos-terminal/internal/config"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/metrics"
	log "github.com/sirupsen/logrus"
)

// Generic messages used when the backend gives no explanation
const (
	msgLookupFailed   = "Could not find an account for this email."
	msgLoginFailed    = "Invalid email or password"
	msgItemsFailed    = "Failed to load products."
	msgCustomerSearch = "Failed to search customers."
	msgCustomerCreate = "Failed to add customer."
	msgOrderFailed    = "Failed to process payment."
	msgInvoicesFailed = "Failed to load invoices."
	msgPrintFailed    = "Failed to print invoice."
	msgCancelFailed   = "Failed to cancel invoice."
	msgCancelRejected = "Cancellation failed."
)

// Client talks to the remote ERP backend. The directory service is global;
// everything else is addressed through the caller's SessionContext.
type Client struct {
	http         *resty.Client
	directoryURL string
	breaker      *Breaker
}

// NewClient creates a backend client from config
func NewClient(cfg config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0). // retries are the cashier's call, the breaker guards the rest
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		directoryURL: strings.TrimRight(cfg.DirectoryURL, "/"),
		breaker:      NewBreaker("Backend", cfg.Breaker),
	}
}

// BreakerState exposes the circuit state for health reporting
func (c *Client) BreakerState() string {
	return c.breaker.GetState()
}

// LookupBaseURL asks the directory service which backend serves email
func (c *Client) LookupBaseURL(ctx context.Context, email string) (string, error) {
	var out baseURLResponse
	err := c.do(ctx, "get_base_url", msgLookupFailed, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(baseURLRequest{Email: email}).Post(c.directoryURL + "/get_base_url")
	})
	if err != nil {
		return "", err
	}
	base := strings.TrimSpace(out.Message.BaseURL)
	if base == "" {
		return "", apperror.NewBackendError(msgLookupFailed, nil)
	}
	return base, nil
}

// Login resolves the backend for email and authenticates against it
func (c *Client) Login(ctx context.Context, email, password string) (*entity.SessionContext, error) {
	base, err := c.LookupBaseURL(ctx, email)
	if err != nil {
		return nil, err
	}

	sess := &entity.SessionContext{BaseURL: strings.TrimRight(base, "/"), Email: email}

	var out loginResponse
	err = c.do(ctx, "pos_login", msgLoginFailed, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(loginRequest{Email: email, Password: password}).Post(methodURL(sess, "pos_login"))
	})
	if err != nil {
		return nil, err
	}
	if out.Message.Token == "" {
		return nil, apperror.Wrap(http.StatusUnauthorized, msgLoginFailed, nil)
	}
	sess.Token = out.Message.Token
	return sess, nil
}

// Logout ends the remote session. Failures are logged and ignored so a
// cashier can always leave the terminal.
func (c *Client) Logout(ctx context.Context, sess *entity.SessionContext) {
	if !sess.Valid() {
		return
	}
	err := c.do(ctx, "logout", "", nil, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).Post(methodURL(sess, "logout"))
	})
	if err != nil {
		log.WithFields(log.Fields{"email": sess.Email, "error": err.Error()}).Warn("backend logout failed")
	}
	sess.Clear()
}

// ListItems loads the full product catalog
func (c *Client) ListItems(ctx context.Context, sess *entity.SessionContext) ([]entity.Product, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	var out itemsResponse
	err := c.do(ctx, "items", msgItemsFailed, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).Get(methodURL(sess, "items"))
	})
	if err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(out.Message))
	for _, rec := range out.Message {
		products = append(products, rec.toProduct())
	}
	return products, nil
}

// SearchCustomers finds loyalty members matching term
func (c *Client) SearchCustomers(ctx context.Context, sess *entity.SessionContext, term string) ([]entity.Customer, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	var out customersResponse
	err := c.do(ctx, "customers_pos", msgCustomerSearch, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).
			SetBody(customerSearchRequest{Customer: term}).
			Post(methodURL(sess, "customers_pos"))
	})
	if err != nil {
		return nil, err
	}
	customers := make([]entity.Customer, 0, len(out.Message))
	for _, rec := range out.Message {
		customers = append(customers, rec.toCustomer())
	}
	return customers, nil
}

// CreateCustomer registers a new loyalty member
func (c *Client) CreateCustomer(ctx context.Context, sess *entity.SessionContext, in entity.NewCustomer) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	var out createCustomerResponse
	return c.do(ctx, "create_customer_pos", msgCustomerCreate, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).
			SetBody(in).
			Post(methodURL(sess, "create_customer_pos"))
	})
}

// SubmitOrder finalizes a sale and returns the issued invoice
func (c *Client) SubmitOrder(ctx context.Context, sess *entity.SessionContext, sub *entity.OrderSubmission) (*entity.SubmissionResult, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	var out orderResponse
	err := c.do(ctx, "create_invoice_pos", msgOrderFailed, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).
			SetBody(newOrderRequest(sub)).
			Post(methodURL(sess, "create_invoice_pos"))
	})
	if err != nil {
		return nil, err
	}
	if out.Message == nil || out.Message.Invoice == "" {
		return nil, apperror.NewBackendError(msgOrderFailed, nil)
	}
	return &entity.SubmissionResult{
		InvoiceRef: out.Message.Invoice,
		InvoiceURL: out.Message.InvoiceURL,
	}, nil
}

// ListInvoices returns the invoices issued to customer. An empty customer
// lists the terminal's recent invoices.
func (c *Client) ListInvoices(ctx context.Context, sess *entity.SessionContext, customer string) ([]entity.Invoice, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	var out invoiceListResponse
	err := c.do(ctx, "invoice_list", msgInvoicesFailed, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).
			SetBody(invoiceListRequest{Customer: customer}).
			Post(methodURL(sess, "invoice_list"))
	})
	if err != nil {
		return nil, err
	}

	records := out.Data
	if records == nil && len(out.Message) > 0 {
		if err := json.Unmarshal(out.Message, &records); err != nil {
			log.WithFields(log.Fields{"operation": "invoice_list", "error": err.Error()}).Warn("backend invoice list unreadable")
			return nil, apperror.NewBackendError(msgInvoicesFailed, &TransportError{Operation: "invoice_list", Err: err})
		}
	}
	invoices := make([]entity.Invoice, 0, len(records))
	for _, rec := range records {
		invoices = append(invoices, rec.toInvoice())
	}
	return invoices, nil
}

// PrintInvoice returns the printable URL of a past invoice
func (c *Client) PrintInvoice(ctx context.Context, sess *entity.SessionContext, invoiceName string) (string, error) {
	if err := requireSession(sess); err != nil {
		return "", err
	}
	var out invoicePrintResponse
	err := c.do(ctx, "invoice_print", msgPrintFailed, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).
			SetBody(invoiceNameRequest{InvoiceName: invoiceName}).
			Post(methodURL(sess, "invoice_print"))
	})
	if err != nil {
		return "", err
	}

	// message is either the URL itself or {invoice_url}
	if u := rawString(out.Message); u != "" {
		return u, nil
	}
	var wrapped struct {
		InvoiceURL string `json:"invoice_url"`
	}
	if err := json.Unmarshal(out.Message, &wrapped); err != nil || wrapped.InvoiceURL == "" {
		return "", apperror.NewBackendError(msgPrintFailed, err)
	}
	return wrapped.InvoiceURL, nil
}

// CancelInvoice asks the backend to cancel a past invoice
func (c *Client) CancelInvoice(ctx context.Context, sess *entity.SessionContext, invoiceName, remarks string) (*entity.CancelInvoiceResult, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	var out cancelInvoiceResponse
	err := c.do(ctx, "cancel_invoice_pos", msgCancelFailed, &out, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Authorization", authHeader(sess)).
			SetBody(cancelInvoiceRequest{InvoiceName: invoiceName, Remarks: remarks}).
			Post(methodURL(sess, "cancel_invoice_pos"))
	})
	if err != nil {
		return nil, err
	}
	if out.Status != "success" {
		msg := strings.TrimSpace(out.Message)
		if msg == "" {
			msg = msgCancelRejected
		}
		return &entity.CancelInvoiceResult{Success: false, Message: msg}, nil
	}
	return &entity.CancelInvoiceResult{Success: true, Message: out.Message}, nil
}

// do runs one request through the breaker, decodes a 2xx body into out and
// turns every failure into an *apperror.AppError.
func (c *Client) do(ctx context.Context, op, fallback string, out interface{}, send func(*resty.Request) (*resty.Response, error)) error {
	start := time.Now()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, httpErr := send(c.http.R().SetContext(ctx))
		if httpErr != nil {
			return nil, &TransportError{Operation: op, Err: httpErr}
		}

		if resp.IsError() {
			return nil, &RejectedError{
				Operation: op,
				Status:    resp.StatusCode(),
				Message:   extractMessage(resp.Body(), fallback),
			}
		}

		if out != nil && len(resp.Body()) > 0 {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return nil, &TransportError{Operation: op, Err: err}
			}
		}
		return nil, nil
	})

	metrics.ObserveBackend(op, start, err)
	if err == nil {
		return nil
	}

	log.WithFields(log.Fields{"operation": op, "error": err.Error()}).Warn("backend call failed")
	return toAppError(err, fallback)
}

func toAppError(err error, fallback string) error {
	if apperror.IsAppError(err) {
		return err
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		if rejected.Status == http.StatusUnauthorized || rejected.Status == http.StatusForbidden {
			return apperror.Wrap(http.StatusUnauthorized, rejected.Message, err)
		}
		return apperror.NewBackendError(rejected.Message, err)
	}
	return apperror.NewBackendError(fallback, err)
}

func requireSession(sess *entity.SessionContext) error {
	if !sess.Valid() {
		return apperror.ErrSessionExpired
	}
	return nil
}
