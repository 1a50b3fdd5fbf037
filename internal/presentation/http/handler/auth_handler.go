package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/internal/presentation/http/middleware"
)

// AuthHandler handles terminal login and logout
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login resolves the operator's backend and opens a terminal session
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"session":      output.Session,
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	})
}

// Logout ends the backend session and discards the terminal's cart
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetTerminalID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logged out successfully", nil)
}

// Session returns the live session
func (h *AuthHandler) Session(c *gin.Context) {
	info, err := h.authService.Session(middleware.GetTerminalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session retrieved successfully", gin.H{"session": info})
}
