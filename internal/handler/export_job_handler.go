package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-locator-api/internal/dto"
	"github.com/noah-isme/faculty-locator-api/internal/service"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
	"github.com/noah-isme/faculty-locator-api/pkg/response"
)

type exportJobManager interface {
	CreateJob(ctx context.Context, query string, req dto.ExportJobRequest) (*dto.ExportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ExportJobStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportJobHandler exposes background timetable archive endpoints.
type ExportJobHandler struct {
	service exportJobManager
}

// NewExportJobHandler constructs the handler.
func NewExportJobHandler(svc exportJobManager) *ExportJobHandler {
	return &ExportJobHandler{service: svc}
}

// CreateJob godoc
// @Summary Queue a timetable archive
// @Tags Export
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID or name"
// @Param payload body dto.ExportJobRequest true "Archive format"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /faculty/{id}/exports [post]
func (h *ExportJobHandler) CreateJob(c *gin.Context) {
	var req dto.ExportJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.service.CreateJob(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// JobStatus godoc
// @Summary Archive job status
// @Tags Export
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/jobs/{id} [get]
func (h *ExportJobHandler) JobStatus(c *gin.Context) {
	status, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished archive
// @Tags Export
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportJobHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.service.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	size := int64(-1)
	if info, err := download.File.Stat(); err == nil {
		size = info.Size()
	}
	response.Stream(c, download.Filename, download.ContentType, size, download.File)
}
