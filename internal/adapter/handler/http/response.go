package http

import (
	"errors"
	"net/http"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Detail string `json:"detail" example:"Bike not found"`
}

type messageResponse struct {
	Message string `json:"message" example:"Successfully logged out"`
}

func newErrorResponse(c *gin.Context, statusCode int, detail string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Detail: detail})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrEmailNotFound),
		errors.Is(err, domain.ErrNoReviews):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and answers with the mapped status. Causes of
// internal errors stay in the log.
func writeError(c *gin.Context, logger ports.LoggerPort, msg string, err error) {
	status := statusFromError(err)
	fields := map[string]interface{}{
		"error":  err.Error(),
		"path":   c.FullPath(),
		"status": status,
	}

	detail := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(msg, fields)
		detail = "Internal server error"
	} else {
		logger.Warn(msg, fields)
	}

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	newErrorResponse(c, status, detail)
}

func bindError(c *gin.Context, logger ports.LoggerPort, err error) {
	logger.Warn("Failed to bind request", map[string]interface{}{
		"error": err.Error(),
		"path":  c.FullPath(),
	})
	newErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
}
