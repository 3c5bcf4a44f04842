package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SiteHandler serves the blog-wide settings.
type SiteHandler struct {
	site SiteSettings
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(settings SiteSettings) *SiteHandler {
	return &SiteHandler{site: settings}
}

// Get handles GET /api/site.
func (h *SiteHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.site.Current())
}
