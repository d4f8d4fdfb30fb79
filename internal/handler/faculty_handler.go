package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-locator-api/internal/dto"
	"github.com/noah-isme/faculty-locator-api/internal/models"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
	"github.com/noah-isme/faculty-locator-api/pkg/response"
)

type facultyDirectory interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultySummary, *models.Pagination, error)
	ListNames(ctx context.Context) []string
	FindByNameOrID(ctx context.Context, query string) (*models.Faculty, error)
	Create(ctx context.Context, req dto.CreateFacultyRequest) (*models.Faculty, error)
	CreateCustom(ctx context.Context, req dto.CreateCustomFacultyRequest) (*models.Faculty, error)
}

// FacultyHandler wires the faculty directory to HTTP routes.
type FacultyHandler struct {
	directory facultyDirectory
}

// NewFacultyHandler constructs a new FacultyHandler.
func NewFacultyHandler(directory facultyDirectory) *FacultyHandler {
	return &FacultyHandler{directory: directory}
}

// List godoc
// @Summary List faculty
// @Tags Faculty
// @Produce json
// @Param search query string false "Search by name or id"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	filter := models.FacultyFilter{Search: strings.TrimSpace(c.Query("search"))}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	items, pagination, err := h.directory.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Names godoc
// @Summary List faculty names in insertion order
// @Tags Faculty
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculty/names [get]
func (h *FacultyHandler) Names(c *gin.Context) {
	names := h.directory.ListNames(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.FacultyNamesResponse{Names: names, Total: len(names)}, nil)
}

// Get godoc
// @Summary Get faculty by id or name
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID or name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	faculty, err := h.directory.FindByNameOrID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Schedule godoc
// @Summary Get a faculty timetable, optionally for one day
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID or name"
// @Param day query string false "Teaching day (monday..saturday)"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id}/schedule [get]
func (h *FacultyHandler) Schedule(c *gin.Context) {
	faculty, err := h.directory.FindByNameOrID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	raw := strings.TrimSpace(c.Query("day"))
	if raw == "" {
		response.JSON(c, http.StatusOK, faculty.Schedule, nil)
		return
	}
	day, err := models.ParseWeekday(raw)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day"))
		return
	}
	response.JSON(c, http.StatusOK, faculty.Schedule[day], nil)
}

// Create godoc
// @Summary Add faculty with a generated timetable
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body dto.CreateFacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Router /faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req dto.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty payload"))
		return
	}
	faculty, err := h.directory.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}

// CreateCustom godoc
// @Summary Add faculty with a caller supplied timetable
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body dto.CreateCustomFacultyRequest true "Faculty with schedule"
// @Success 201 {object} response.Envelope
// @Router /faculty/custom [post]
func (h *FacultyHandler) CreateCustom(c *gin.Context) {
	var req dto.CreateCustomFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid custom schedule payload"))
		return
	}
	faculty, err := h.directory.CreateCustom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}
