package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/service"
	"github.com/jengzang/traffic-backend-go/pkg/response"
)

// TrafficHandler handles HTTP requests for the traffic dataset
type TrafficHandler struct {
	trafficService *service.TrafficService
}

// NewTrafficHandler creates a new traffic handler
func NewTrafficHandler(trafficService *service.TrafficService) *TrafficHandler {
	return &TrafficHandler{
		trafficService: trafficService,
	}
}

// GetReadings handles GET /api/v1/traffic/readings
func (h *TrafficHandler) GetReadings(c *gin.Context) {
	scenario := c.DefaultQuery("scenario", models.ScenarioAll)

	readings, err := h.trafficService.Scenario(scenario)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, readings)
}

// GetReadingAt handles GET /api/v1/traffic/at
func (h *TrafficHandler) GetReadingAt(c *gin.Context) {
	timeStr := c.Query("time")
	if timeStr == "" {
		response.BadRequest(c, "Missing time parameter")
		return
	}

	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		response.BadRequest(c, "Invalid time parameter, expected RFC3339")
		return
	}

	reading, err := h.trafficService.ReadingAt(t)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, reading)
}
