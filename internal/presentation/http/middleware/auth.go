package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	TerminalKey      = "terminal"
	TerminalIDKey    = "terminal_id"
	TerminalEmailKey = "terminal_email"
)

// AuthMiddleware validates the terminal access token and loads the live
// terminal it names. A valid token whose terminal is gone (logged out or
// evicted) is rejected so the UI returns to the login screen.
func AuthMiddleware(jwtManager *utils.JWTManager, registry *terminal.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		term, ok := registry.Get(claims.TerminalID)
		if !ok {
			response.Error(c, apperror.ErrSessionExpired)
			c.Abort()
			return
		}

		c.Set(TerminalKey, term)
		c.Set(TerminalIDKey, claims.TerminalID)
		c.Set(TerminalEmailKey, claims.Email)

		c.Next()
	}
}

// GetTerminalID returns the authenticated terminal id, or uuid.Nil
func GetTerminalID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(TerminalIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
