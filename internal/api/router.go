package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/geowell-backend-go/internal/config"
	"github.com/jengzang/geowell-backend-go/internal/handler"
	"github.com/jengzang/geowell-backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Loads *handler.LoadHandler
	Wells *handler.WellHandler
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(cfg *config.Config, h Handlers, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(logger), gin.Recovery())
	r.Use(cors(cfg.Server.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "GeoWell Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		loads := api.Group("/loads")
		{
			loads.POST("", middleware.RateLimit(cfg.Server.LoadsPerMinute, time.Minute), h.Loads.Run)
			loads.GET("/last", h.Loads.Last)
		}

		wells := api.Group("/wells")
		{
			wells.GET("", h.Wells.List)
			wells.GET("/stats", h.Wells.Stats)
			wells.GET("/:name", h.Wells.Get)
			wells.GET("/:name/trajectory", h.Wells.Trajectory)
			wells.GET("/:name/map", h.Wells.Map)
			wells.GET("/:name/segments", h.Wells.Segments)
		}
	}

	return r
}

// cors allows the configured origins, "*" allows any
func cors(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowed["*"]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
