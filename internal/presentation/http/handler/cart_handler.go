package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// CartHandler handles the cart, discount, points and customer of the open sale
type CartHandler struct {
	checkoutService *service.CheckoutService
	customerService *service.CustomerService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(checkoutService *service.CheckoutService, customerService *service.CustomerService) *CartHandler {
	return &CartHandler{checkoutService: checkoutService, customerService: customerService}
}

func (h *CartHandler) reply(c *gin.Context, message string, snap checkout.Snapshot, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, gin.H{"cart": snap})
}

// Get returns the cart with its priced totals
// @Summary Get cart
// @Tags cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	h.reply(c, "Cart retrieved successfully", h.checkoutService.Cart(term), nil)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	h.reply(c, "Cart cleared", h.checkoutService.ClearCart(term), nil)
}

// AddItem adds one unit of a catalog product
// @Summary Add item
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.AddItemRequest true "Item"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.checkoutService.AddItem(c.Request.Context(), term, req.ItemCode)
	h.reply(c, "Item added to cart", snap, err)
}

// Scan adds the product with an exactly matching barcode
func (h *CartHandler) Scan(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.checkoutService.Scan(c.Request.Context(), term, req.Barcode)
	h.reply(c, "Item added to cart", snap, err)
}

// Increment raises a line's quantity by one
func (h *CartHandler) Increment(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	snap, err := h.checkoutService.Increment(term, id)
	h.reply(c, "Quantity updated", snap, err)
}

// Decrement lowers a line's quantity by one
func (h *CartHandler) Decrement(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	snap, err := h.checkoutService.Decrement(term, id)
	h.reply(c, "Quantity updated", snap, err)
}

// Remove drops a line from the cart
func (h *CartHandler) Remove(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	snap, err := h.checkoutService.Remove(term, id)
	h.reply(c, "Item removed from cart", snap, err)
}

// SetPrice overrides a line's unit price
func (h *CartHandler) SetPrice(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req request.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.checkoutService.SetPrice(term, id, string(req.Price))
	h.reply(c, "Price updated", snap, err)
}

// SetDiscount applies the discount type and amount text
func (h *CartHandler) SetDiscount(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.checkoutService.SetDiscount(term, req.Type, req.Amount)
	h.reply(c, "Discount updated", snap, err)
}

// SetRedeemedPoints applies the points text
func (h *CartHandler) SetRedeemedPoints(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.checkoutService.SetRedeemedPoints(term, req.Points)
	h.reply(c, "Redeemed points updated", snap, err)
}

// SelectCustomer attaches a customer from the latest search to the sale
func (h *CartHandler) SelectCustomer(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.SelectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.customerService.SelectCustomer(term, req.ID); err != nil {
		response.Error(c, err)
		return
	}
	h.reply(c, "Customer selected", h.checkoutService.Cart(term), nil)
}

// ClearCustomer detaches the customer
func (h *CartHandler) ClearCustomer(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}
	h.customerService.ClearCustomer(term)
	h.reply(c, "Customer cleared", h.checkoutService.Cart(term), nil)
}
