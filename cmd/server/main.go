package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/sitestock/backend/internal/application/catalog"
	inventoryapp "github.com/sitestock/backend/internal/application/inventory"
	requestapp "github.com/sitestock/backend/internal/application/request"
	"github.com/sitestock/backend/internal/infrastructure/auth"
	"github.com/sitestock/backend/internal/infrastructure/cache"
	"github.com/sitestock/backend/internal/infrastructure/config"
	"github.com/sitestock/backend/internal/infrastructure/event"
	"github.com/sitestock/backend/internal/infrastructure/logger"
	"github.com/sitestock/backend/internal/infrastructure/persistence"
	"github.com/sitestock/backend/internal/interfaces/http/handler"
	"github.com/sitestock/backend/internal/interfaces/http/middleware"
	"github.com/sitestock/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SiteStock Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	levelRepo := persistence.NewGormInventoryLevelRepository(db.DB)
	transactionRepo := persistence.NewGormMaterialTransactionRepository(db.DB)
	requestRepo := persistence.NewGormMaterialRequestRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize the event bus and subscribe handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(inventoryapp.NewStockAlertHandler(log))
	eventBus.Subscribe(requestapp.NewLifecycleAuditHandler(log))
	ctx := context.Background()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Material cache: Redis when reachable, in-memory otherwise
	cacheFactory := cache.NewMaterialCacheFactory(cfg.Redis, cache.WithLogger(log))
	materialCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create material cache", zap.Error(err))
	}

	// Initialize application services
	materialService := catalogapp.NewMaterialService(materialRepo, supplierRepo, levelRepo, transactionRepo, requestRepo)
	materialService.SetCache(materialCache)
	materialService.SetEventPublisher(eventBus)
	materialService.SetLogger(log)

	supplierService := catalogapp.NewSupplierService(supplierRepo, materialRepo)

	ledgerService := inventoryapp.NewLedgerService(txScope, materialRepo, levelRepo, transactionRepo)
	ledgerService.SetEventPublisher(eventBus)
	ledgerService.SetLogger(log)

	requestService := requestapp.NewRequestService(txScope, requestRepo, materialRepo)
	requestService.SetEventPublisher(eventBus)
	requestService.SetLogger(log)

	// JWT service for request authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	materialHandler := handler.NewMaterialHandler(materialService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	inventoryHandler := handler.NewInventoryHandler(ledgerService)
	requestHandler := handler.NewRequestHandler(requestService)
	systemHandler := handler.NewSystemHandler()

	// Configure gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.SetupValidator()

	// Middleware order matters: request id first so every later log line
	// carries it, recovery before logging so panics still get a log entry,
	// then security headers, body cap, CORS, and the rate limiter.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(1 << 20))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Per-client rate limit: Redis-backed when reachable so the cap holds
	// across replicas, in-memory otherwise
	if cfg.HTTP.RateLimitPerMinute > 0 {
		var limitStore middleware.RateLimitStore
		if redisStore, err := middleware.NewRedisRateLimitStore(cfg.Redis); err == nil {
			defer func() {
				_ = redisStore.Close()
			}()
			limitStore = redisStore
			log.Info("using Redis rate limit store")
		} else {
			log.Warn("Redis unavailable, using in-memory rate limit store", zap.Error(err))
			limitStore = middleware.NewMemoryRateLimitStore()
		}
		limiter := middleware.NewRateLimiter(limitStore, cfg.HTTP.RateLimitPerMinute,
			time.Minute, middleware.WithRateLimitLogger(log))
		engine.Use(middleware.RateLimit(limiter))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	materialHandler.RegisterRoutes(catalogRoutes)
	supplierHandler.RegisterRoutes(catalogRoutes)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryHandler.RegisterRoutes(inventoryRoutes)

	requestRoutes := router.NewDomainGroup("requests", "/requests")
	requestHandler.RegisterRoutes(requestRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemHandler.RegisterRoutes(systemRoutes)

	r.Register(catalogRoutes).
		Register(inventoryRoutes).
		Register(requestRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
