package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// CustomerHandler handles loyalty member lookup and registration
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Search looks customers up by name or phone. Keystroke bursts are
// debounced per terminal; superseded requests answer with superseded=true.
// @Summary Search customers
// @Tags customers
// @Security BearerAuth
// @Produce json
// @Param q query string false "Name or phone"
// @Success 200 {object} response.APIResponse
// @Router /customers/search [get]
func (h *CustomerHandler) Search(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.CustomerSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.customerService.Search(c.Request.Context(), term, req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customers retrieved successfully", result)
}

// Create registers a loyalty member and selects them for the sale
// @Summary Create customer
// @Tags customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateCustomerRequest true "Customer"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), term, &service.CreateCustomerInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Customer created successfully", gin.H{"customer": customer})
}
