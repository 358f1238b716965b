package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	catalogapp "github.com/treadline/backend/internal/application/catalog"
	inventoryapp "github.com/treadline/backend/internal/application/inventory"
	orderapp "github.com/treadline/backend/internal/application/order"
	"github.com/treadline/backend/internal/infrastructure/cache"
	"github.com/treadline/backend/internal/infrastructure/config"
	"github.com/treadline/backend/internal/infrastructure/event"
	"github.com/treadline/backend/internal/infrastructure/logger"
	"github.com/treadline/backend/internal/infrastructure/persistence"
	"github.com/treadline/backend/internal/infrastructure/telemetry"
	"github.com/treadline/backend/internal/interfaces/http/handler"
	"github.com/treadline/backend/internal/interfaces/http/middleware"
	"github.com/treadline/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Treadline Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Telemetry
	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		// Tee every log entry into the OTLP exporter alongside the
		// console output.
		bridgeCore := telemetry.NewZapBridgeCore(logsProvider, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
		log = logger.WithExtraCores(log, bridgeCore)
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("treadline-backend"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Application services
	ledger := inventoryapp.NewInventoryLedger(stockItemRepo, stockMovementRepo, log)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, ledger, log)
	productService := catalogapp.NewProductService(productRepo)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(inventoryapp.NewLowStockAlertHandler(log))
	if businessMetrics != nil {
		eventBus.Subscribe(telemetry.NewMetricsEventHandler(businessMetrics))
	}
	ledger.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// Idempotency store for duplicate create protection
	if cfg.Idempotency.Enabled {
		idempotencyStore, err := cache.NewIdempotencyStore(cfg, log)
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		defer func() {
			if err := idempotencyStore.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()
		orderService.SetIdempotencyStore(idempotencyStore, cfg.Idempotency.TTL)
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Handlers and routes
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(ledger)
	productHandler := handler.NewProductHandler(productService)
	systemHandler := handler.NewSystemHandler(db.DB)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create).
		GET("", orderHandler.List).
		GET("/:id", orderHandler.GetByID).
		GET("/number/:order_number", orderHandler.GetByOrderNumber).
		POST("/:id/status", orderHandler.ChangeStatus).
		DELETE("/:id", orderHandler.Delete)

	stockRoutes := router.NewDomainGroup("inventory", "/stock")
	stockRoutes.POST("/receive", inventoryHandler.Receive).
		POST("/adjust", inventoryHandler.Adjust).
		PUT("/levels", inventoryHandler.SetLevels).
		GET("", inventoryHandler.List).
		GET("/:product_id", inventoryHandler.GetStock).
		GET("/:product_id/movements", inventoryHandler.ListMovements)

	productRoutes := router.NewDomainGroup("catalog", "/products")
	productRoutes.POST("", productHandler.Create).
		GET("", productHandler.List).
		GET("/:id", productHandler.GetByID).
		GET("/code/:code", productHandler.GetByCode).
		PUT("/:id", productHandler.Update).
		POST("/:id/activate", productHandler.Activate).
		POST("/:id/deactivate", productHandler.Deactivate).
		DELETE("/:id", productHandler.Delete)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping).
		GET("/health", systemHandler.Health)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(orderRoutes).
		Register(stockRoutes).
		Register(productRoutes).
		Register(systemRoutes).
		Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
