package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/geowell-backend-go/internal/service"
	"github.com/jengzang/geowell-backend-go/pkg/response"
)

// LoadHandler handles HTTP requests for data loads
type LoadHandler struct {
	loadService *service.LoadService
}

// NewLoadHandler creates a new load handler
func NewLoadHandler(loadService *service.LoadService) *LoadHandler {
	return &LoadHandler{loadService: loadService}
}

// Run handles POST /api/v1/loads
func (h *LoadHandler) Run(c *gin.Context) {
	summary, err := h.loadService.Run(c.Request.Context())
	if err != nil {
		fail(c, "Failed to load data", err)
		return
	}

	response.Success(c, summary)
}

// Last handles GET /api/v1/loads/last
func (h *LoadHandler) Last(c *gin.Context) {
	summary, ok := h.loadService.Last()
	if !ok {
		response.NotFound(c, "No load has run yet")
		return
	}

	response.Success(c, summary)
}
