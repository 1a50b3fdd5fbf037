package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// CheckoutHandler handles the payment step and order submission
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

func (h *CheckoutHandler) reply(c *gin.Context, message string, view *service.PaymentView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, gin.H{"payment": view})
}

// BeginPayment opens the payment step for the current cart
// @Summary Begin payment
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /checkout/payment [post]
func (h *CheckoutHandler) BeginPayment(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	view, err := h.checkoutService.BeginPayment(term)
	h.reply(c, "Payment started", view, err)
}

// GetPayment returns the open payment step
func (h *CheckoutHandler) GetPayment(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	view, err := h.checkoutService.Payment(term)
	h.reply(c, "Payment retrieved successfully", view, err)
}

// CancelPayment closes the payment step, keeping the cart
func (h *CheckoutHandler) CancelPayment(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	h.checkoutService.CancelPayment(term)
	response.OK(c, "Payment cancelled", nil)
}

// TogglePayment selects or deselects the :method tender
func (h *CheckoutHandler) TogglePayment(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	view, err := h.checkoutService.TogglePayment(term, c.Param("method"))
	h.reply(c, "Payment method updated", view, err)
}

// EditPayment changes the amount or reference of the :method tender
func (h *CheckoutHandler) EditPayment(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.EditPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.checkoutService.EditPayment(term, c.Param("method"), &service.EditPaymentInput{
		Amount:        req.Amount,
		ReferenceCode: req.ReferenceCode,
	})
	h.reply(c, "Payment updated", view, err)
}

// SetRemarks stores the order remarks
func (h *CheckoutHandler) SetRemarks(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.RemarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.checkoutService.SetRemarks(term, req.Remarks)
	h.reply(c, "Remarks updated", view, err)
}

// ConfirmPayment checks the tenders settle the bill
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	view, err := h.checkoutService.ConfirmPayment(term)
	h.reply(c, "Payment confirmed", view, err)
}

// Submit sends the sale to the backend and prints the receipt
// @Summary Submit order
// @Tags checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Client generated key"
// @Param request body request.SubmitRequest true "Invoice type"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /checkout/submit [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Please select an invoice type.")
		return
	}

	out, err := h.checkoutService.Submit(c.Request.Context(), term, req.InvoiceType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order submitted successfully", out)
}
