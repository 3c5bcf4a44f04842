package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/middleware"
	"github.com/ba5maa/FileBlogSystem/internal/service"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// ExportHandler streams content backups.
type ExportHandler struct {
	exportService service.ExportServiceInterface
	validator     *validator.Validator
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportServiceInterface, v *validator.Validator) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		validator:     v,
	}
}

// ginStreamWriter wraps gin.ResponseWriter for streaming.
type ginStreamWriter struct {
	writer gin.ResponseWriter
}

func (w *ginStreamWriter) Write(data []byte) error {
	_, err := w.writer.Write(data)
	return err
}

func (w *ginStreamWriter) Flush() {
	w.writer.Flush()
}

// StreamExport handles GET /api/export?resource=...&format=...
func (h *ExportHandler) StreamExport(c *gin.Context) {
	var req domain.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	if err := h.validator.ValidateExport(&req); err != nil {
		respondValidation(c, err)
		return
	}

	// Default format is ndjson
	if req.Format == "" {
		req.Format = domain.FormatNDJSON
	}

	log := logger.WithRequestID(middleware.GetRequestID(c))
	log.Info("Streaming export",
		slog.String("resource", req.Resource),
		slog.String("format", req.Format))

	contentType := "application/x-ndjson"
	if req.Format == domain.FormatCSV {
		contentType = "text/csv"
	}

	c.Header("Content-Type", contentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Disposition", "attachment; filename=\""+req.Resource+"."+req.Format+"\"")

	count, err := h.exportService.Stream(c.Request.Context(), req.Resource, req.Format, &ginStreamWriter{writer: c.Writer})
	if err != nil {
		if !c.Writer.Written() {
			c.Header("Content-Type", "application/json; charset=utf-8")
			c.Header("Content-Disposition", "")
			respondError(c, err)
			return
		}
		// Headers are already sent; the client sees a truncated body.
		log.Error("Streaming export failed",
			slog.String("resource", req.Resource),
			slog.Int("records", count),
			slog.String("error", err.Error()))
		return
	}

	c.Status(http.StatusOK)
	log.Info("Streaming export completed",
		slog.String("resource", req.Resource),
		slog.Int("records", count))
}
