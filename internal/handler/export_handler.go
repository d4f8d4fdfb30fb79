package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-locator-api/internal/dto"
	"github.com/noah-isme/faculty-locator-api/internal/middleware"
	"github.com/noah-isme/faculty-locator-api/internal/service"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
	"github.com/noah-isme/faculty-locator-api/pkg/response"
)

type timetableExporter interface {
	Render(ctx context.Context, query, format string) (*service.ExportResult, error)
	Formats() []string
}

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	service timetableExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc timetableExporter) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Download a faculty timetable
// @Tags Export
// @Produce octet-stream
// @Param id path string true "Faculty ID or name"
// @Param format query string true "csv, pdf, xlsx or ics"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /faculty/{id}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if req.Format == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format is required"))
		return
	}
	result, err := h.service.Render(c.Request.Context(), c.Param("id"), req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.Cached)
	response.File(c, result.Filename, result.ContentType, result.Payload)
}

// Formats godoc
// @Summary List enabled export formats
// @Tags Export
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exports/formats [get]
func (h *ExportHandler) Formats(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"formats": h.service.Formats()}, nil)
}
