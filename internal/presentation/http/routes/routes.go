package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/pos-terminal/internal/config"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/internal/presentation/http/handler"
	"github.com/sangkips/pos-terminal/internal/presentation/http/middleware"
	"github.com/sangkips/pos-terminal/pkg/metrics"
	"github.com/sangkips/pos-terminal/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Customer *handler.CustomerHandler
	Checkout *handler.CheckoutHandler
	Invoice  *handler.InvoiceHandler
	Printer  *handler.PrinterHandler
}

// BackendStatus reports the remote backend's circuit breaker state
type BackendStatus interface {
	BreakerState() string
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Registry        *terminal.Registry
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TerminalRateLimiter
	Backend         BackendStatus
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(metrics.PrometheusMiddleware(deps.Cfg.App.Name))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":           "ok",
			"service":          deps.Cfg.App.Name,
			"active_terminals": deps.Registry.Len(),
		}
		if deps.Backend != nil {
			body["backend_breaker"] = deps.Backend.BreakerState()
		}
		if deps.RateLimiter != nil {
			body["rate_limiter"] = deps.RateLimiter.Stats()
		}
		c.JSON(200, body)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (live terminal session required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Registry))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

// NewRateLimiter builds the per-terminal limiter from RATE_LIMIT_* settings
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.TerminalRateLimiter {
	cleanup := middleware.DefaultRateLimiterConfig()
	rps := 0.0
	if cfg.Duration > 0 {
		rps = float64(cfg.Requests) / float64(cfg.Duration)
	}
	return middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: rps,
		BurstSize:         cfg.Requests,
		CleanupInterval:   cleanup.CleanupInterval,
		EntryTTL:          cleanup.EntryTTL,
	})
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idem := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, TTL: middleware.IdempotencyKeyTTL}

	// Session
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/session", h.Auth.Session)

	registerProductRoutes(protected, h)
	registerCartRoutes(protected, h)
	registerCustomerRoutes(protected, h, idem)
	registerCheckoutRoutes(protected, h, idem)
	registerInvoiceRoutes(protected, h, idem)
	registerPrinterRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("/refresh", h.Product.Refresh)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.POST("/scan", h.Cart.Scan)
		cart.POST("/items/:order_id/increment", h.Cart.Increment)
		cart.POST("/items/:order_id/decrement", h.Cart.Decrement)
		cart.DELETE("/items/:order_id", h.Cart.Remove)
		cart.PUT("/items/:order_id/price", h.Cart.SetPrice)
		cart.PUT("/discount", h.Cart.SetDiscount)
		cart.PUT("/redeem", h.Cart.SetRedeemedPoints)
		cart.PUT("/customer", h.Cart.SelectCustomer)
		cart.DELETE("/customer", h.Cart.ClearCustomer)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers, idem middleware.IdempotencyConfig) {
	customers := protected.Group("/customers")
	{
		customers.GET("/search", h.Customer.Search)
		customers.POST("", middleware.Idempotency(idem), h.Customer.Create)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, idem middleware.IdempotencyConfig) {
	co := protected.Group("/checkout")
	{
		co.POST("/payment", h.Checkout.BeginPayment)
		co.GET("/payment", h.Checkout.GetPayment)
		co.DELETE("/payment", h.Checkout.CancelPayment)
		co.POST("/payment/methods/:method", h.Checkout.TogglePayment)
		co.PUT("/payment/methods/:method", h.Checkout.EditPayment)
		co.PUT("/payment/remarks", h.Checkout.SetRemarks)
		co.POST("/payment/confirm", h.Checkout.ConfirmPayment)
		// A retried submit must never create a second invoice
		co.POST("/submit", middleware.IdempotencyRequired(idem), h.Checkout.Submit)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, idem middleware.IdempotencyConfig) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/export", h.Invoice.Export)
		invoices.POST("/:name/print", h.Invoice.Print)
		invoices.POST("/:name/cancel", middleware.Idempotency(idem), h.Invoice.Cancel)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
