package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler handles past invoice lookup, printing, export and cancellation
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// bindFilter reads the query into a service filter, writing a 400 on failure
func bindFilter(c *gin.Context) (*service.InvoiceFilter, bool) {
	var req request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}

	filter := &service.InvoiceFilter{
		Customer:   req.Customer,
		Search:     req.Search,
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
	}
	if req.Type != "" {
		typ, ok := enum.ParseInvoiceType(req.Type)
		if !ok {
			response.BadRequest(c, "Invoice type must be tax or abt")
			return nil, false
		}
		filter.Type = typ
	}
	return filter, true
}

// List returns one page of invoices
// @Summary List invoices
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param type query string false "tax or abt"
// @Param search query string false "Invoice, tax id or customer"
// @Param page query int false "Page"
// @Param per_page query int false "Page size (5-25)"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), term, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Export downloads the filtered invoices as an xlsx workbook
func (h *InvoiceHandler) Export(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	data, err := h.invoiceService.Export(c.Request.Context(), term, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102-150405"))
	response.Attachment(c, filename, xlsxContentType, data)
}

// Print returns the backend's printable URL for :name
func (h *InvoiceHandler) Print(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	url, err := h.invoiceService.PrintInvoice(c.Request.Context(), term, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice ready to print", gin.H{"invoice_url": url})
}

// Cancel asks the backend to cancel :name
// @Summary Cancel invoice
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CancelInvoiceRequest true "Remarks"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /invoices/{name}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.invoiceService.CancelInvoice(c.Request.Context(), term, c.Param("name"), req.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result.Message, gin.H{"result": result})
}
