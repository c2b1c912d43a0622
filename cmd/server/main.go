package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/api"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/api/handlers"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/cache"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/config"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/database"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/logging"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/services"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/telemetry"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	// Initialize tracing
	tracing, err := telemetry.Init(telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Environment:  cfg.Environment,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to shutdown telemetry")
		}
	}()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	repository := database.NewMarketRepository(db.Pool)
	analyzer := services.NewMarketAnalyzer(cfg, logger)
	reportCache := cache.NewAnalysisCache(redis.Client, cfg.Cache.ResultTTLDuration(), logger)
	styleCache := cache.NewStyleCache()

	shockHandler := handlers.NewShockHandler(repository, analyzer, reportCache, styleCache, cfg, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(otelgin.Middleware(telemetry.ServiceName))

	api.SetupRoutes(router, db, redis, shockHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
