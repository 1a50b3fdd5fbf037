package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// ProductHandler serves the terminal's catalog snapshot
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns the catalog, filtered by ?search=
// @Summary List products
// @Tags products
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, item code or barcode"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	var req request.ProductFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	products, err := h.productService.Search(c.Request.Context(), term, req.Search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", gin.H{"products": products, "count": len(products)})
}

// Refresh reloads the catalog from the backend
func (h *ProductHandler) Refresh(c *gin.Context) {
	term := mustTerminal(c)
	if term == nil {
		return
	}

	products, err := h.productService.Refresh(c.Request.Context(), term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog refreshed", gin.H{"products": products, "count": len(products)})
}
