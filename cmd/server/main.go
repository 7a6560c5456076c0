package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	billingapp "github.com/facturio/backend/internal/application/billing"
	catalogapp "github.com/facturio/backend/internal/application/catalog"
	partnerapp "github.com/facturio/backend/internal/application/partner"
	"github.com/facturio/backend/internal/infrastructure/auth"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/facturio/backend/internal/infrastructure/event"
	"github.com/facturio/backend/internal/infrastructure/logger"
	"github.com/facturio/backend/internal/infrastructure/persistence"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/facturio/backend/internal/interfaces/http/handler"
	"github.com/facturio/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Redis is optional: without it, token revocation and idempotency keys
	// fall back to process-local stores.
	var (
		tokenBlacklist   auth.TokenBlacklist
		idempotencyStore cache.IdempotencyStore
	)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory stores", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		memStore := cache.NewMemoryIdempotencyStore()
		defer func() { _ = memStore.Close() }()
		idempotencyStore = memStore
	} else {
		defer func() { _ = redisClient.Close() }()
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, cfg.App.Name)
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	eventBus := event.NewInMemoryEventBus(log)

	// repositories
	allocator := persistence.NewSequenceAllocator(db.DB, cfg.Billing)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB, allocator)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB, allocator)

	// application services
	defaults := billingapp.DocumentDefaults{
		QuoteValidityDays: cfg.Billing.QuoteValidityDays,
		InvoiceDueDays:    cfg.Billing.InvoiceDueDays,
	}
	quoteService := billingapp.NewQuoteService(quoteRepo, clientRepo, productRepo, defaults)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, clientRepo, productRepo, defaults)
	conversionService := billingapp.NewConversionService(quoteRepo, invoiceRepo, defaults)
	clientService := partnerapp.NewClientService(clientRepo, quoteRepo, invoiceRepo)
	productService := catalogapp.NewProductService(productRepo)

	quoteService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	conversionService.SetEventPublisher(eventBus)
	clientService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)

	engine := router.New(router.Dependencies{
		Config:           cfg,
		Logger:           log,
		JWTService:       jwtService,
		TokenBlacklist:   tokenBlacklist,
		IdempotencyStore: idempotencyStore,
		System: []router.RouteRegistrar{
			handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env),
		},
		API: []router.RouteRegistrar{
			handler.NewQuoteHandler(quoteService, conversionService),
			handler.NewInvoiceHandler(invoiceService),
			handler.NewClientHandler(clientService),
			handler.NewProductHandler(productService),
		},
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	log.Info("Server stopped")
}
