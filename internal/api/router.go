package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/traffic-backend-go/internal/config"
	"github.com/jengzang/traffic-backend-go/internal/handler"
	"github.com/jengzang/traffic-backend-go/internal/middleware"
	"github.com/jengzang/traffic-backend-go/internal/service"
)

// SetupRouter wires the HTTP surface of the simulation service
func SetupRouter(cfg *config.Config, simService *service.SimulationService, trafficService *service.TrafficService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Traffic Simulation API is running",
		})
	})

	simHandler := handler.NewSimulationHandler(simService)
	trafficHandler := handler.NewTrafficHandler(trafficService)

	api := r.Group("/api/v1")
	{
		traffic := api.Group("/traffic")
		{
			traffic.GET("/readings", trafficHandler.GetReadings)
			traffic.GET("/at", trafficHandler.GetReadingAt)
		}

		simulations := api.Group("/simulations")
		if cfg.AuthEnabled {
			simulations.Use(middleware.Auth(cfg.JWTSecret))
		}
		{
			simulations.POST("", simHandler.CreateRun)
			simulations.POST("/:id/step", simHandler.Step)
			simulations.POST("/:id/run", simHandler.Run)
			simulations.POST("/:id/emergencies", simHandler.DispatchEmergency)
			simulations.GET("/:id/snapshot", simHandler.Snapshot)
			simulations.GET("/:id/metrics", simHandler.Metrics)
			simulations.GET("/:id/heatmap", simHandler.Heatmap)
		}

		api.GET("/runs", simHandler.ListRuns)
	}

	return r
}
