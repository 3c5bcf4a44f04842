package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/middleware"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// ValidationErrorResponse is returned with 400 when a body fails validation.
type ValidationErrorResponse struct {
	Error   string                 `json:"error"`
	Details []validator.FieldError `json:"details"`
}

// respondError maps a store or validation error to a status code. Storage
// failures are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var (
		notFound *domain.NotFoundError
		conflict *domain.ConflictError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case validator.IsValidationError(err):
		respondValidation(c, err)
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.WithRequestID(middleware.GetRequestID(c)).Warn("Request canceled",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request canceled"})
	default:
		logger.WithRequestID(middleware.GetRequestID(c)).Error("Operation failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:   "validation failed",
		Details: validator.ConvertValidationErrors(err),
	})
}

// bindJSON decodes the request body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
