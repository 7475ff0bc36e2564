package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geowell-backend-go/internal/repository"
	"github.com/jengzang/geowell-backend-go/internal/service"
	"github.com/jengzang/geowell-backend-go/pkg/response"
)

// fail maps service errors to HTTP responses
func fail(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, repository.ErrWellNotFound), errors.Is(err, service.ErrNoTrajectory):
		response.Error(c, http.StatusNotFound, message, err)
	case errors.Is(err, service.ErrInvalidArgument):
		response.Error(c, http.StatusBadRequest, message, err)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
