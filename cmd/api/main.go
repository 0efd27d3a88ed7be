package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salvex/salvex-api/config"
	"github.com/salvex/salvex-api/internal/cache"
	"github.com/salvex/salvex-api/internal/database/postgres"
	"github.com/salvex/salvex-api/internal/handlers"
	"github.com/salvex/salvex-api/internal/intake"
	"github.com/salvex/salvex-api/internal/middleware"
	"github.com/salvex/salvex-api/internal/repository"
	"github.com/salvex/salvex-api/internal/services"
	"github.com/salvex/salvex-api/pkg/auth"
	"github.com/salvex/salvex-api/pkg/db"
	"github.com/salvex/salvex-api/pkg/httpclient"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/metrics"
	"github.com/salvex/salvex-api/pkg/objectstore"
	"github.com/salvex/salvex-api/pkg/profiling"
	"github.com/salvex/salvex-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	submitBodyLimit = 16 * 1024
	adminBodyLimit  = 4 * 1024
)

// registerInquiryRoutes registers the public intake routes for a given router group
func registerInquiryRoutes(
	group *gin.RouterGroup,
	submitRateLimiter, generalRateLimiter *middleware.RateLimiter,
	adminAuth gin.HandlerFunc,
	inquiryHandler *handlers.InquiryHandler,
) {
	group.POST("/project-inquiries", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(submitBodyLimit), inquiryHandler.Submit)
	group.GET("/project-inquiries", generalRateLimiter.Middleware(), adminAuth, inquiryHandler.List)
}

// registerAdminRoutes registers the token-gated administrator views
func registerAdminRoutes(
	router *gin.Engine,
	generalRateLimiter *middleware.RateLimiter,
	adminAuth gin.HandlerFunc,
	adminHandler *handlers.AdminInquiryHandler,
) {
	admin := router.Group("/api/v1/admin/project-inquiries")
	admin.Use(generalRateLimiter.Middleware(), adminAuth)

	admin.GET("/status/:status", adminHandler.ListByStatus)
	admin.GET("/by-email", adminHandler.GetByEmail)
	admin.GET("/recent", adminHandler.ListRecent)
	admin.GET("/:id", adminHandler.GetByID)
	admin.POST("/:id/status", middleware.BodySizeLimitMiddleware(adminBodyLimit), adminHandler.UpdateStatus)
	admin.POST("/export", adminHandler.Export)
}

// openInquirySource picks the storage backend. The returned pool is nil in offline mode.
func openInquirySource(ctx context.Context, cfg *config.Config) (repository.InquiryDataSource, *pgxpool.Pool, error) {
	if cfg.Database.WorkOffline {
		logger.Warn("DB_WORK_OFFLINE is set: inquiries are kept in memory and lost on restart")
		return repository.NewMemoryInquiryDataSource(), nil, nil
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL: cfg.Database.URL,
		TLS: db.TLSConfig{
			CACertPath: cfg.Database.CACertPath,
			ServerName: cfg.Database.TLSServerName,
		},
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, nil, err
	}

	return repository.NewPostgresInquiryDataSource(postgres.NewClient(pool)), pool, nil
}

// newSnapshotUploader returns nil when export storage is not configured
func newSnapshotUploader(cfg *config.Config) services.SnapshotUploader {
	if !cfg.ExportStorage.Enabled() {
		logger.Info("Inquiry export disabled: export storage not configured")
		return nil
	}

	return objectstore.NewStorageClient(objectstore.Config{
		AccessKeyID:     cfg.ExportStorage.AccessKeyID,
		SecretAccessKey: cfg.ExportStorage.SecretAccessKey,
		BucketName:      cfg.ExportStorage.BucketName,
		Endpoint:        cfg.ExportStorage.Endpoint,
		Region:          cfg.ExportStorage.Region,
	})
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Salvex API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.Bool("offline", cfg.Database.WorkOffline),
	)

	if cfg.Auth.AdminAPIToken == "" {
		logger.Warn("ADMIN_API_TOKEN is not set: inquiry listing will reject every request")
	}
	if cfg.Auth.StorageAdminToken == "" {
		logger.Warn("STORAGE_ADMIN_TOKEN is not set: inquiry listing will report a misconfiguration")
	}

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		ExporterEndpoint:  cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiling, err := profiling.Start(cfg.Profiling, profiling.Labels{
		ServiceName: cfg.Observability.ServiceName,
		Namespace:   cfg.Observability.ServiceNamespace,
		Version:     cfg.Observability.ServiceVersion,
		InstanceID:  cfg.Observability.ServiceInstanceID,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiling()

	// Background workers stop when ctx is cancelled at shutdown
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	metrics.RecordInfrastructureMetrics(ctx.Done())

	// NOTE: migrations run separately via the migrate command
	source, pool, err := openInquirySource(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize inquiry store", zap.Error(err))
	}
	defer db.Close(pool)

	store := repository.NewInquiryRepository(source, auth.NewSecretAuthorizer(cfg.Auth.StorageAdminToken))
	listCache := cache.NewInquiryListCache(cfg.Cache.InquiryListTTLSeconds)
	httpClient := httpclient.NewStandardClient()

	// Initialize services
	inquiryService := services.NewInquiryService(store, intake.NewValidator(time.Now), listCache, cfg, httpClient)
	exportService := services.NewExportService(inquiryService, newSnapshotUploader(cfg), time.Now)

	// Initialize handlers
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	adminHandler := handlers.NewAdminInquiryHandler(inquiryService, exportService)
	healthHandler := handlers.NewHealthHandler(store)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// CORS: only the marketing site may call the API from a browser
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "x-admin-token", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Rate limiters. Submissions come from a human filling in a form.
	generalRateLimiter := middleware.NewRateLimiter(ctx, "general", 50, 100) // 50 req/sec, burst of 100
	submitRateLimiter := middleware.NewRateLimiter(ctx, "submit", 0.05, 5)   // 3 req/min, burst of 5

	adminAuth := middleware.AdminTokenMiddleware(auth.NewSecretAuthorizer(cfg.Auth.AdminAPIToken))

	// API routes
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	registerInquiryRoutes(api, submitRateLimiter, generalRateLimiter, adminAuth, inquiryHandler)

	v1 := router.Group("/api/v1")
	registerInquiryRoutes(v1, submitRateLimiter, generalRateLimiter, adminAuth, inquiryHandler)

	registerAdminRoutes(router, generalRateLimiter, adminAuth, adminHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
