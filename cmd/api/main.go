package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/config"
	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/backend"
	"github.com/sangkips/pos-terminal/internal/infrastructure/database"
	"github.com/sangkips/pos-terminal/internal/infrastructure/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/internal/presentation/http/handler"
	"github.com/sangkips/pos-terminal/internal/presentation/http/routes"
	"github.com/sangkips/pos-terminal/pkg/logger"
	"github.com/sangkips/pos-terminal/pkg/pagination"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/sangkips/pos-terminal/pkg/utils"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remote backend (catalog, customers, orders, invoices)
	backendClient := backend.NewClient(cfg.Backend)

	// Live terminal sessions
	registry := terminal.NewRegistry(terminal.Config{
		Checkout: checkout.SessionConfig{
			VATRate:          cfg.Checkout.VATRate,
			Tolerance:        cfg.Checkout.PaymentTolerance,
			AbbreviatedLimit: cfg.Checkout.AbbreviatedLimit,
		},
		SearchDebounce: cfg.Session.SearchDebounce,
		IdleTimeout:    cfg.Session.IdleTimeout,
		OnEvict: func(t *terminal.Terminal) {
			logoutCtx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
			defer cancel()
			backendClient.Logout(logoutCtx, t.Backend())
		},
	})
	go registry.Run(ctx)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Idempotency store: postgres when configured, in-memory otherwise
	var idempotencyRepo domainRepo.IdempotencyRepository
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to database")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.WithError(err).Fatal("Failed to run migrations")
		}
		idempotencyRepo = repository.NewIdempotencyRepository(db)
	} else {
		idempotencyRepo = repository.NewMemoryIdempotencyRepository()
	}
	go purgeIdempotencyKeys(ctx, idempotencyRepo, time.Hour)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer, receipts disabled")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	bounds := pagination.Bounds{
		Default: cfg.Invoice.PerPageDefault,
		Min:     cfg.Invoice.PerPageMin,
		Max:     cfg.Invoice.PerPageMax,
	}
	authService := service.NewAuthService(backendClient, registry, jwtManager)
	productService := service.NewProductService(backendClient, cfg.Session.CatalogTTL)
	customerService := service.NewCustomerService(backendClient)
	printerService := service.NewPrinterService(thermalPrinter, cfg.Printer)
	checkoutService := service.NewCheckoutService(productService, backendClient, printerService)
	invoiceService := service.NewInvoiceService(backendClient, bounds)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Cart:     handler.NewCartHandler(checkoutService, customerService),
		Customer: handler.NewCustomerHandler(customerService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Registry:        registry,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Backend:         backendClient,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"service": cfg.App.Name, "port": port, "env": cfg.App.Env}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}

// purgeIdempotencyKeys drops expired keys every interval until ctx is done
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.WithError(err).Warn("failed to purge expired idempotency keys")
			}
		}
	}
}
