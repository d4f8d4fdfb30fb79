package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-locator-api/internal/dto"
	"github.com/noah-isme/faculty-locator-api/internal/models"
	"github.com/noah-isme/faculty-locator-api/pkg/config"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
)

type facultyRepository interface {
	Create(ctx context.Context, name string, build func(id string) models.WeekSchedule) (*models.Faculty, error)
	FindByNameOrID(ctx context.Context, query string) (*models.Faculty, bool)
	Names(ctx context.Context) []string
	List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultySummary, int)
	Count(ctx context.Context) int
}

type weekGenerator interface {
	GenerateWeek(name string, tracker *RoomTracker) models.WeekSchedule
}

// FacultyServiceConfig governs directory behaviour.
type FacultyServiceConfig struct {
	// RoomScope is config.RoomScopeDirectory to share one room tracker across
	// every generated faculty, or config.RoomScopeFaculty for one tracker per faculty.
	RoomScope string
}

// FacultyService is the faculty directory: lookups plus append-only creation.
type FacultyService struct {
	repo      facultyRepository
	generator weekGenerator
	tracker   *RoomTracker
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, generator weekGenerator, cfg FacultyServiceConfig, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &FacultyService{
		repo:      repo,
		generator: generator,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
	if cfg.RoomScope != config.RoomScopeFaculty {
		svc.tracker = NewRoomTracker()
	}
	return svc
}

// FindByNameOrID returns the faculty whose name or id matches case-insensitively.
func (s *FacultyService) FindByNameOrID(ctx context.Context, query string) (*models.Faculty, error) {
	faculty, ok := s.repo.FindByNameOrID(ctx, query)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}
	return faculty, nil
}

// ListNames returns all faculty names in insertion order.
func (s *FacultyService) ListNames(ctx context.Context) []string {
	return s.repo.Names(ctx)
}

// List returns faculty summaries plus pagination data.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultySummary, *models.Pagination, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	items, total := s.repo.List(ctx, filter)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// AddGenerated allocates the next id, generates a timetable (applying any
// override registered for the name) and appends the record. Names are not validated here.
func (s *FacultyService) AddGenerated(ctx context.Context, name string) (*models.Faculty, error) {
	faculty, err := s.repo.Create(ctx, name, func(string) models.WeekSchedule {
		return s.generator.GenerateWeek(name, s.tracker)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add faculty")
	}
	s.metrics.RecordFacultyAdded(true, s.repo.Count(ctx))
	s.logger.Info("faculty added", zap.String("id", faculty.ID), zap.String("name", faculty.Name), zap.Bool("generated", true))
	return faculty, nil
}

// AddWithCustomSchedule stores the caller supplied timetable verbatim.
func (s *FacultyService) AddWithCustomSchedule(ctx context.Context, name string, schedule models.WeekSchedule) (*models.Faculty, error) {
	stored := schedule.Clone()
	faculty, err := s.repo.Create(ctx, name, func(string) models.WeekSchedule {
		return stored
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add faculty")
	}
	s.metrics.RecordFacultyAdded(false, s.repo.Count(ctx))
	s.logger.Info("faculty added", zap.String("id", faculty.ID), zap.String("name", faculty.Name), zap.Bool("generated", false))
	return faculty, nil
}

// Create validates an HTTP payload before delegating to AddGenerated.
func (s *FacultyService) Create(ctx context.Context, req dto.CreateFacultyRequest) (*models.Faculty, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	return s.AddGenerated(ctx, req.Name)
}

// CreateCustom validates an HTTP payload, fills in missing days and delegates
// to AddWithCustomSchedule.
func (s *FacultyService) CreateCustom(ctx context.Context, req dto.CreateCustomFacultyRequest) (*models.Faculty, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid custom schedule payload")
	}
	week := models.WeekSchedule(req.Schedule).Normalize()
	for day, schedule := range week {
		for _, session := range schedule.Sessions {
			if err := session.TimeSlot.Validate(); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session on "+day.Title())
			}
		}
	}
	return s.AddWithCustomSchedule(ctx, req.Name, week)
}

// Seed bootstraps the directory with generated faculty.
func (s *FacultyService) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := s.AddGenerated(ctx, name); err != nil {
			return err
		}
	}
	s.logger.Info("directory seeded", zap.Int("count", len(names)))
	return nil
}
