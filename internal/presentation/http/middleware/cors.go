package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/config"
	log "github.com/sirupsen/logrus"
)

// terminalHeaders are sent by every terminal client and always allowed
var terminalHeaders = []string{"Authorization", "Content-Type", "Idempotency-Key"}

// CORSMiddleware lets the configured terminal front ends call the API from
// the browser. With no origins configured only same-origin calls work.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		log.Warn("no CORS origins configured, cross-origin requests are refused")
		return func(c *gin.Context) { c.Next() }
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	}

	headers := slices.Clone(cfg.AllowedHeaders)
	for _, h := range terminalHeaders {
		if !slices.ContainsFunc(headers, func(v string) bool { return strings.EqualFold(v, h) }) {
			headers = append(headers, h)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID", "X-Idempotency-Replayed"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
