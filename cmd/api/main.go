package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/orientame/onboarding-api/config"
	"github.com/orientame/onboarding-api/internal/cache"
	"github.com/orientame/onboarding-api/internal/database/postgres"
	"github.com/orientame/onboarding-api/internal/handlers"
	"github.com/orientame/onboarding-api/internal/middleware"
	"github.com/orientame/onboarding-api/internal/onboarding"
	"github.com/orientame/onboarding-api/internal/repository"
	"github.com/orientame/onboarding-api/internal/services"
	"github.com/orientame/onboarding-api/pkg/db"
	"github.com/orientame/onboarding-api/pkg/httpclient"
	"github.com/orientame/onboarding-api/pkg/jwt"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"github.com/orientame/onboarding-api/pkg/profiling"
	"github.com/orientame/onboarding-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerAPIRoutes registers the wizard routes under /api/v1
func registerAPIRoutes(
	group *gin.RouterGroup,
	tokenManager *jwt.TokenManager,
	generalRateLimiter, executiveRateLimiter *middleware.RateLimiter,
	executiveHandler *handlers.ExecutiveHandler,
	formHandler *handlers.CounselorFormHandler,
) {
	group.POST("/executives", executiveRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), executiveHandler.CreateExecutive)
	group.GET("/catalog", generalRateLimiter.Middleware(), formHandler.GetCatalog)

	// Counselor step (protected by the wizard token)
	wizard := group.Group("")
	wizard.Use(generalRateLimiter.Middleware(), middleware.WizardSessionMiddleware(tokenManager))

	wizard.POST("/counselor-forms", formHandler.OpenForm)
	wizard.GET("/counselor-forms/:id", formHandler.GetForm)
	wizard.PATCH("/counselor-forms/:id/fields", middleware.BodySizeLimitMiddleware(16*1024), formHandler.EditField)
	wizard.POST("/counselor-forms/:id/submit", formHandler.SubmitForm)
	wizard.DELETE("/counselor-forms/:id", formHandler.DiscardForm)
	wizard.GET("/counselors", formHandler.ListCounselors)
}

// newDataSource picks Postgres, or in-memory storage when working offline
func newDataSource(ctx context.Context, cfg *config.Config) (repository.DataSource, *handlers.HealthCheck, func(), error) {
	if cfg.Database.WorkOffline {
		logger.Warn("Working offline: executives and counselors are kept in memory")
		return repository.NewMemoryDataSource(), nil, func() {}, nil
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	client := postgres.NewClient(pool)
	check := &handlers.HealthCheck{Name: "database", Check: client.Ping}
	return repository.NewPostgresDataSource(client), check, client.Close, nil
}

// newFormStore picks where open counselor forms live
func newFormStore(ctx context.Context, cfg *config.Config) (onboarding.FormStore, *handlers.HealthCheck, func(), error) {
	if cfg.Forms.Store != "redis" {
		return cache.NewFormCache(cfg.Forms.SessionTTL), nil, func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}

	check := &handlers.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
	closeFn := func() {
		if err := client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
	return cache.NewRedisFormStore(client, cfg.Redis.KeyPrefix, cfg.Forms.SessionTTL), check, closeFn, nil
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

	logger.Info("Starting onboarding API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("form_store", cfg.Forms.Store),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
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

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.Init(cfg.Observability.ServiceName)
	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// NOTE: Database migrations run separately via the migrate command
	dataSource, dbCheck, closeDataSource, err := newDataSource(startupCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer closeDataSource()

	formStore, storeCheck, closeFormStore, err := newFormStore(startupCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize counselor form store", zap.Error(err))
	}
	defer closeFormStore()

	catalog, err := onboarding.LoadCatalog(cfg.Forms.CatalogFile)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err), zap.String("path", cfg.Forms.CatalogFile))
	}

	// Initialize HTTP client for event triggers
	httpClient := httpclient.NewStandardClient()

	tokenManager := jwt.NewTokenManager(cfg.WizardSession.JWTSecret, cfg.WizardSession.JWTIssuer, cfg.WizardSession.TTLHours)

	coordinator := onboarding.NewCoordinator(
		formStore,
		onboarding.NewValidator(catalog),
		onboarding.NewAvatarGenerator(catalog.AvatarColors, onboarding.ColorMode(cfg.Forms.AvatarColorMode)),
		onboarding.WithSubmitDelay(cfg.Forms.SubmitDelay),
	)

	// Initialize repositories and services
	executiveRepo := repository.NewExecutiveRepository(dataSource)
	counselorRepo := repository.NewCounselorRepository(dataSource)

	executiveService := services.NewExecutiveService(executiveRepo, tokenManager, cfg, httpClient)
	formService := services.NewCounselorFormService(coordinator, catalog, counselorRepo, cfg, httpClient)

	// Initialize handlers
	executiveHandler := handlers.NewExecutiveHandler(executiveService)
	formHandler := handlers.NewCounselorFormHandler(formService)

	var healthChecks []handlers.HealthCheck
	for _, check := range []*handlers.HealthCheck{dbCheck, storeCheck} {
		if check != nil {
			healthChecks = append(healthChecks, *check)
		}
	}
	healthHandler := handlers.NewHealthHandler(healthChecks...)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - only the wizard frontend origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(50, 100)  // 50 req/sec, burst of 100
	executiveRateLimiter := middleware.NewRateLimiter(0.2, 5) // 1 req/5sec, burst of 5
	defer generalRateLimiter.Stop()
	defer executiveRateLimiter.Stop()

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	registerAPIRoutes(router.Group("/api/v1"), tokenManager, generalRateLimiter, executiveRateLimiter, executiveHandler, formHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// in-flight submits may still be inside the save delay
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second+cfg.Forms.SubmitDelay)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
