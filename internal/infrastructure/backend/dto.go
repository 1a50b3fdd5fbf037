package backend

import (
	"encoding/json"
	"strings"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

type baseURLRequest struct {
	Email string `json:"email"`
}

type baseURLResponse struct {
	Message struct {
		BaseURL string `json:"base_url"`
	} `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message struct {
		Token string `json:"token"`
	} `json:"message"`
}

type itemPrice struct {
	PriceListRate decimal.NullDecimal `json:"price_list_rate"`
}

type itemRecord struct {
	ItemCode        string              `json:"item_code"`
	ItemName        string              `json:"item_name"`
	Barcode         string              `json:"barcode"`
	Image           string              `json:"image"`
	StandardRate    decimal.NullDecimal `json:"standard_rate"`
	Prices          []itemPrice         `json:"prices"`
	StockQty        *float64            `json:"stock_qty"`
	TaxRate         decimal.NullDecimal `json:"tax_rate"`
	DiscountPercent decimal.NullDecimal `json:"discount_percent"`
}

// toProduct picks the price from standard_rate, then the first price list
// rate, then zero. A missing stock figure counts as none on hand.
func (r itemRecord) toProduct() entity.Product {
	price := decimal.Zero
	switch {
	case r.StandardRate.Valid && r.StandardRate.Decimal.IsPositive():
		price = r.StandardRate.Decimal
	case len(r.Prices) > 0 && r.Prices[0].PriceListRate.Valid:
		price = r.Prices[0].PriceListRate.Decimal
	}

	stock := 0
	if r.StockQty != nil && *r.StockQty > 0 {
		stock = int(*r.StockQty)
	}

	return entity.Product{
		ItemCode:        r.ItemCode,
		Name:            r.ItemName,
		Barcode:         r.Barcode,
		ImageRef:        r.Image,
		UnitPrice:       price,
		StockQuantity:   stock,
		TaxRate:         r.TaxRate.Decimal,
		DiscountPercent: r.DiscountPercent.Decimal,
	}
}

type itemsResponse struct {
	Message []itemRecord `json:"message"`
}

type customerSearchRequest struct {
	Customer string `json:"customer"`
}

type customerRecord struct {
	Name             string              `json:"name"`
	FullName         string              `json:"full_name"`
	CustomerName     string              `json:"customer_name"`
	Phone            string              `json:"phone"`
	MobileNo         string              `json:"mobile_no"`
	Email            string              `json:"email"`
	TotalPoints      float64             `json:"total_points"`
	ConversionFactor decimal.NullDecimal `json:"conversion_factor"`
}

func (r customerRecord) toCustomer() entity.Customer {
	fullName := r.FullName
	if fullName == "" {
		fullName = r.CustomerName
	}
	if fullName == "" {
		fullName = r.Name
	}
	phone := r.Phone
	if phone == "" {
		phone = r.MobileNo
	}
	points := 0
	if r.TotalPoints > 0 {
		points = int(r.TotalPoints)
	}
	return entity.Customer{
		ID:               r.Name,
		FullName:         fullName,
		Phone:            phone,
		Email:            r.Email,
		TotalPoints:      points,
		ConversionFactor: r.ConversionFactor.Decimal,
	}
}

type customersResponse struct {
	Message []customerRecord `json:"message"`
}

// createCustomerResponse is lenient: some servers return the new record
// under message, others only a confirmation string.
type createCustomerResponse struct {
	Message json.RawMessage `json:"message"`
}

type orderLine struct {
	ItemCode string  `json:"item_code"`
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
}

type orderPayment struct {
	ModeOfPayment string  `json:"mode_of_payment"`
	Amount        float64 `json:"amount"`
	ReferenceNo   string  `json:"reference_no"`
}

type orderRequest struct {
	Customer        string         `json:"customer"`
	Cart            []orderLine    `json:"cart"`
	DiscountAmount  float64        `json:"discount_amount"`
	DiscountPercent float64        `json:"discount_percent"`
	RedeemedPoints  int            `json:"redeemed_points"`
	Payments        []orderPayment `json:"payments"`
	Remarks         string         `json:"remarks"`
	InvoiceType     string         `json:"invoice_type"`
}

func newOrderRequest(sub *entity.OrderSubmission) orderRequest {
	req := orderRequest{
		Customer:        sub.CustomerRef,
		Cart:            make([]orderLine, 0, len(sub.Lines)),
		DiscountAmount:  sub.DiscountAmount.InexactFloat64(),
		DiscountPercent: sub.DiscountPercent.InexactFloat64(),
		RedeemedPoints:  sub.RedeemedPoints,
		Payments:        make([]orderPayment, 0, len(sub.Payments)),
		Remarks:         sub.Remarks,
		InvoiceType:     sub.InvoiceType.String(),
	}
	for _, l := range sub.Lines {
		req.Cart = append(req.Cart, orderLine{ItemCode: l.ItemCode, Quantity: l.Quantity, Rate: l.Rate.InexactFloat64()})
	}
	for _, p := range sub.Payments {
		req.Payments = append(req.Payments, orderPayment{
			ModeOfPayment: p.Method.String(),
			Amount:        p.Amount.InexactFloat64(),
			ReferenceNo:   p.ReferenceCode,
		})
	}
	return req
}

type orderResponse struct {
	Message *struct {
		Invoice    string `json:"invoice"`
		InvoiceURL string `json:"invoice_url"`
	} `json:"message"`
}

type invoiceListRequest struct {
	Customer string `json:"customer"`
}

type invoiceRecord struct {
	Name              string          `json:"name"`
	CustomFullName    string          `json:"custom_full_name"`
	Customer          string          `json:"customer"`
	TaxID             string          `json:"tax_id"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	CustomInvoiceType string          `json:"custom_invoice_type"`
	InvoiceURL        string          `json:"invoice_url"`
	PostingDate       string          `json:"posting_date"`
	Status            string          `json:"status"`
}

func (r invoiceRecord) toInvoice() entity.Invoice {
	t, ok := enum.ParseInvoiceType(r.CustomInvoiceType)
	if !ok {
		t = enum.InvoiceType(strings.TrimSpace(r.CustomInvoiceType))
	}
	return entity.Invoice{
		Name:           r.Name,
		CustomFullName: r.CustomFullName,
		Customer:       r.Customer,
		TaxID:          r.TaxID,
		GrandTotal:     r.GrandTotal,
		InvoiceType:    t,
		InvoiceURL:     r.InvoiceURL,
		PostingDate:    r.PostingDate,
		Status:         r.Status,
	}
}

// invoiceListResponse accepts the list under data or message
type invoiceListResponse struct {
	Data    []invoiceRecord `json:"data"`
	Message json.RawMessage `json:"message"`
}

type invoiceNameRequest struct {
	InvoiceName string `json:"invoice_name"`
}

type invoicePrintResponse struct {
	Message json.RawMessage `json:"message"`
}

type cancelInvoiceRequest struct {
	InvoiceName string `json:"invoice_name"`
	Remarks     string `json:"remarks"`
}

type cancelInvoiceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
