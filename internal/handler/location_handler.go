package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-locator-api/internal/dto"
	"github.com/noah-isme/faculty-locator-api/internal/middleware"
	"github.com/noah-isme/faculty-locator-api/internal/service"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
	"github.com/noah-isme/faculty-locator-api/pkg/response"
)

type locator interface {
	Locate(ctx context.Context, query string, at *time.Time) (*dto.LocationResponse, error)
	Catalog() *service.SlotCatalog
}

// LocationHandler exposes the location resolver and slot catalog.
type LocationHandler struct {
	service locator
}

// NewLocationHandler constructs the handler.
func NewLocationHandler(svc locator) *LocationHandler {
	return &LocationHandler{service: svc}
}

// Locate godoc
// @Summary Predict where a faculty member is
// @Description Resolves the current slot from the server clock, or from the optional RFC3339 "at" instant.
// @Tags Location
// @Produce json
// @Param id path string true "Faculty ID or name"
// @Param at query string false "Instant (RFC3339)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id}/location [get]
func (h *LocationHandler) Locate(c *gin.Context) {
	var at *time.Time
	if raw := strings.TrimSpace(c.Query("at")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "at must be an RFC3339 timestamp"))
			return
		}
		at = &parsed
	}

	result, err := h.service.Locate(c.Request.Context(), c.Param("id"), at)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

// Slots godoc
// @Summary Daily slot catalog
// @Tags Location
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /slots [get]
func (h *LocationHandler) Slots(c *gin.Context) {
	catalog := h.service.Catalog()
	start, end := catalog.Bounds()
	response.JSON(c, http.StatusOK, dto.SlotCatalogResponse{
		Morning:   catalog.Morning,
		Lunch:     catalog.Lunch,
		Afternoon: catalog.Afternoon,
		Start:     start,
		End:       end,
	}, nil)
}
