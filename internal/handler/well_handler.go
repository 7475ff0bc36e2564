package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geowell-backend-go/internal/models"
	"github.com/jengzang/geowell-backend-go/internal/service"
	"github.com/jengzang/geowell-backend-go/pkg/response"
)

// WellHandler handles HTTP requests for wells
type WellHandler struct {
	wellService *service.WellService
}

// NewWellHandler creates a new well handler
func NewWellHandler(wellService *service.WellService) *WellHandler {
	return &WellHandler{wellService: wellService}
}

// List handles GET /api/v1/wells
func (h *WellHandler) List(c *gin.Context) {
	var filter models.WellFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.wellService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to get wells", err)
		return
	}

	response.Success(c, result)
}

// Stats handles GET /api/v1/wells/stats
func (h *WellHandler) Stats(c *gin.Context) {
	stats, err := h.wellService.Stats(c.Request.Context())
	if err != nil {
		fail(c, "Failed to get well statistics", err)
		return
	}

	response.Success(c, stats)
}

// Get handles GET /api/v1/wells/:name
func (h *WellHandler) Get(c *gin.Context) {
	well, err := h.wellService.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		fail(c, "Well not found", err)
		return
	}

	response.Success(c, well)
}

// Trajectory handles GET /api/v1/wells/:name/trajectory
func (h *WellHandler) Trajectory(c *gin.Context) {
	step := -1.0
	if raw := c.Query("step"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			response.BadRequest(c, "Invalid step parameter")
			return
		}
		step = v
	}

	result, err := h.wellService.Trajectory(c.Request.Context(), c.Param("name"), step)
	if err != nil {
		fail(c, "Failed to get trajectory", err)
		return
	}

	response.Success(c, result)
}

// Map handles GET /api/v1/wells/:name/map?md=1500&md=1510.5
// A single md parameter may also hold a comma separated list.
func (h *WellHandler) Map(c *gin.Context) {
	var mds []float64
	for _, raw := range c.QueryArray("md") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				response.BadRequest(c, "Invalid md parameter")
				return
			}
			mds = append(mds, v)
		}
	}
	if len(mds) == 0 {
		response.BadRequest(c, "Missing md parameter")
		return
	}

	points, err := h.wellService.Map(c.Request.Context(), c.Param("name"), mds)
	if err != nil {
		fail(c, "Failed to map depths", err)
		return
	}

	response.Success(c, gin.H{
		"well":   c.Param("name"),
		"points": points,
	})
}

// Segments handles GET /api/v1/wells/:name/segments
func (h *WellHandler) Segments(c *gin.Context) {
	var query models.SegmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.wellService.Segments(c.Request.Context(), c.Param("name"), query)
	if err != nil {
		fail(c, "Failed to extract segments", err)
		return
	}

	response.Success(c, result)
}
