package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/traffic-backend-go/internal/emergency"
	"github.com/jengzang/traffic-backend-go/internal/service"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
	"github.com/jengzang/traffic-backend-go/pkg/response"
)

// SimulationHandler handles HTTP requests for simulation runs
type SimulationHandler struct {
	simService *service.SimulationService
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(simService *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{
		simService: simService,
	}
}

// CreateRunRequest is the body for POST /api/v1/simulations
type CreateRunRequest struct {
	GridSize int   `json:"grid_size"`
	Seed     int64 `json:"seed"`
}

// RunRequest is the body for POST /api/v1/simulations/:id/run
type RunRequest struct {
	Steps             int  `json:"steps" binding:"required"`
	EmergencyScenario bool `json:"emergency_scenario"`
}

// DispatchRequest is the body for POST /api/v1/simulations/:id/emergencies
type DispatchRequest struct {
	VehicleID string        `json:"vehicle_id"`
	Start     spatial.Coord `json:"start"`
	End       spatial.Coord `json:"end"`
	Priority  int           `json:"priority"`
}

// CreateRun handles POST /api/v1/simulations
func (h *SimulationHandler) CreateRun(c *gin.Context) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.simService.CreateRun(req.GridSize, req.Seed)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, info)
}

// Step handles POST /api/v1/simulations/:id/step
func (h *SimulationHandler) Step(c *gin.Context) {
	summary, err := h.simService.Step(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, summary)
}

// Run handles POST /api/v1/simulations/:id/run
func (h *SimulationHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: steps is required")
		return
	}

	result, err := h.simService.Run(c.Param("id"), req.Steps, req.EmergencyScenario)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, result)
}

// DispatchEmergency handles POST /api/v1/simulations/:id/emergencies
func (h *SimulationHandler) DispatchEmergency(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dispatch, err := h.simService.DispatchEmergency(c.Param("id"), req.VehicleID, req.Start, req.End, req.Priority)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, dispatch)
}

// Snapshot handles GET /api/v1/simulations/:id/snapshot
func (h *SimulationHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.simService.Snapshot(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, snapshot)
}

// Metrics handles GET /api/v1/simulations/:id/metrics
func (h *SimulationHandler) Metrics(c *gin.Context) {
	metrics, err := h.simService.Metrics(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, metrics)
}

// Heatmap handles GET /api/v1/simulations/:id/heatmap
func (h *SimulationHandler) Heatmap(c *gin.Context) {
	points, err := h.simService.Heatmap(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, points)
}

// ListRuns handles GET /api/v1/runs
func (h *SimulationHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	runs, err := h.simService.ListRuns(limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, runs)
}

// respondError maps service errors onto HTTP statuses
func (h *SimulationHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunNotFound),
		errors.Is(err, emergency.ErrVehicleNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, emergency.ErrDuplicateVehicle):
		response.Conflict(c, err.Error())
	default:
		response.BadRequest(c, err.Error())
	}
}
