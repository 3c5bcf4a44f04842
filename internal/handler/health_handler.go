package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/logger"
)

// ContentChecker reports whether the content directories are usable.
type ContentChecker interface {
	Check() error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	content ContentChecker
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(content ContentChecker, version string) *HealthHandler {
	return &HealthHandler{content: content, version: version}
}

// HealthResponse represents the response for health check endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Services map[string]string `json:"services,omitempty"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	services := map[string]string{
		"content_store": "healthy",
	}

	if err := h.content.Check(); err != nil {
		logger.Warn("Content store health check failed", slog.String("error", err.Error()))
		services["content_store"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Services: services,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Services: services,
	})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.content.Check(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live handles GET /live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
