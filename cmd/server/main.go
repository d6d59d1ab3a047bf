package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cashierapp "github.com/lanchonete/backend/internal/application/cashier"
	saleapp "github.com/lanchonete/backend/internal/application/sale"
	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/domain/shared"
	"github.com/lanchonete/backend/internal/infrastructure/cache"
	"github.com/lanchonete/backend/internal/infrastructure/config"
	"github.com/lanchonete/backend/internal/infrastructure/event"
	"github.com/lanchonete/backend/internal/infrastructure/logger"
	"github.com/lanchonete/backend/internal/infrastructure/persistence"
	"github.com/lanchonete/backend/internal/interfaces/http/handler"
	"github.com/lanchonete/backend/internal/interfaces/http/middleware"
	"github.com/lanchonete/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to database with zap-backed gorm logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	closingRepo := persistence.NewGormClosingRepository(db.DB)
	lookup := persistence.NewGormCatalogLookup(db.DB)

	// Catalog reads go through a cache; Redis when available, in-process
	// otherwise
	var catalogReader catalog.Reader
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCatalogCache(lookup, cfg.Redis, cfg.Catalog.CacheTTL, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Failed to close Redis client", zap.Error(err))
			}
		}()
		catalogReader = redisCache
		log.Info("Catalog cache enabled", zap.String("backend", "redis"))
	} else {
		catalogReader = cache.NewInMemoryCatalogCache(lookup, cfg.Catalog.CacheTTL)
		log.Info("Catalog cache enabled", zap.String("backend", "memory"))
	}

	// Domain event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	clock := shared.SystemClock{}
	classifier := catalog.NewBeverageClassifier(cfg.Catalog.BeverageKeywords)

	saleService := saleapp.NewSaleService(saleRepo, catalogReader, classifier, eventBus, clock)
	paymentService := saleapp.NewPaymentService(saleRepo, eventBus, clock)
	productionService := saleapp.NewProductionService(saleRepo, catalogReader, eventBus, clock)
	closingService := cashierapp.NewClosingService(closingRepo, saleRepo, lookup, eventBus, clock,
		cashierapp.ClosingPolicy{AllowMultiplePerDay: cfg.Cashier.ClosingAllowMultiplePerDay})

	// HTTP handlers
	saleHandler := handler.NewSaleHandler(saleService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	productionHandler := handler.NewProductionHandler(productionService)
	cashierHandler := handler.NewCashierHandler(closingService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	router.New(saleHandler, paymentHandler, productionHandler, cashierHandler, systemHandler).Setup(engine)

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
