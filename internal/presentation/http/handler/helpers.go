package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/internal/presentation/http/middleware"
)

// GetTerminal extracts the live terminal from the Gin context
func GetTerminal(c *gin.Context) *terminal.Terminal {
	v, exists := c.Get(middleware.TerminalKey)
	if !exists {
		return nil
	}
	term, ok := v.(*terminal.Terminal)
	if !ok {
		return nil
	}
	return term
}

// mustTerminal writes a 401 and returns nil when the request has no terminal
func mustTerminal(c *gin.Context) *terminal.Terminal {
	term := GetTerminal(c)
	if term == nil {
		response.Unauthorized(c, "Terminal not authenticated")
	}
	return term
}

// orderIDParam parses the :order_id path parameter, writing a 400 on failure
func orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		response.BadRequest(c, "Invalid cart item ID")
		return uuid.Nil, false
	}
	return id, true
}
