package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/api/handlers"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/database"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func SetupRoutes(router *gin.Engine, db *database.PostgresDB, redis *database.RedisClient, shockHandler *handlers.ShockHandler) {
	// Health check endpoint
	router.GET("/health", healthCheck(db, redis))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Shock analysis routes
		shocks := v1.Group("/shocks")
		{
			shocks.GET("", shockHandler.GetShocks)
			shocks.GET("/statistics", shockHandler.GetStatistics)
			shocks.GET("/propagation", shockHandler.GetPropagation)
			shocks.GET("/clusters", shockHandler.GetClusters)
			shocks.GET("/trends", shockHandler.GetTrends)
			shocks.GET("/report", shockHandler.GetReport)
		}

		// Commodity listing for selector panels
		v1.GET("/commodities", shockHandler.GetCommodities)

		// Cache management
		cache := v1.Group("/cache")
		{
			cache.POST("/clear", shockHandler.ClearCaches)
		}
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Database: "ok",
				Redis:    "ok",
			},
		}

		if db != nil {
			if err := db.HealthCheck(c.Request.Context()); err != nil {
				response.Status = "degraded"
				response.Services.Database = "unavailable"
			}
		}
		if redis != nil {
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				response.Status = "degraded"
				response.Services.Redis = "unavailable"
			}
		}

		status := http.StatusOK
		if response.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}
