package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-locator-api/internal/dto"
	"github.com/noah-isme/faculty-locator-api/internal/models"
	"github.com/noah-isme/faculty-locator-api/internal/repository"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
	"github.com/noah-isme/faculty-locator-api/pkg/jobs"
	"github.com/noah-isme/faculty-locator-api/pkg/storage"
)

// ExportJobType is the queue job type for timetable archives.
const ExportJobType = "timetable_export"

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error)
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type timetableRenderer interface {
	Render(ctx context.Context, query, format string) (*ExportResult, error)
	Supports(format string) bool
}

type archiveStore interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportJobServiceConfig governs download links and cleanup.
type ExportJobServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportDownload is a resolved archive ready to stream.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// ExportJobService orchestrates the background export lifecycle.
type ExportJobService struct {
	repo      exportJobStore
	directory facultyFinder
	exports   timetableRenderer
	queue     jobDispatcher
	store     archiveStore
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	cfg       ExportJobServiceConfig
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewExportJobService constructs the service.
func NewExportJobService(repo exportJobStore, directory facultyFinder, exports timetableRenderer, queue jobDispatcher, store archiveStore, signer *storage.SignedURLSigner, cfg ExportJobServiceConfig, metrics *MetricsService, logger *zap.Logger) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportJobService{
		repo:      repo,
		directory: directory,
		exports:   exports,
		queue:     queue,
		store:     store,
		signer:    signer,
		validator: dto.NewValidator(),
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateJob validates the request, stores a queued job and dispatches it.
func (s *ExportJobService) CreateJob(ctx context.Context, query string, req dto.ExportJobRequest) (*dto.ExportJobResponse, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export job payload")
	}
	if !s.exports.Supports(req.Format) {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "format is not enabled")
	}
	faculty, err := s.directory.FindByNameOrID(ctx, query)
	if err != nil {
		return nil, err
	}

	job := &models.ExportJob{
		FacultyID:   faculty.ID,
		FacultyName: faculty.Name,
		Format:      req.Format,
		Status:      models.ExportJobQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ExportJobType}); err != nil {
		failed := models.ExportJobFailed
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		_ = s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &failed, ErrorMessage: &msg, FinishedAt: &now})
		s.metrics.RecordExportJob(failed)
		if errors.Is(err, jobs.ErrFull) {
			return nil, appErrors.Clone(appErrors.ErrQueueFull, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	s.metrics.RecordExportJob(models.ExportJobQueued)
	s.logger.Info("export job queued", zap.String("job_id", job.ID), zap.String("faculty", faculty.ID), zap.String("format", job.Format))
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata to clients.
func (s *ExportJobService) GetStatus(ctx context.Context, id string) (*dto.ExportJobStatusResponse, error) {
	job, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ExportJobStatusResponse{
		ID:        job.ID,
		FacultyID: job.FacultyID,
		Format:    job.Format,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
	}, nil
}

// ResolveDownload validates the token and opens the stored archive.
func (s *ExportJobService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.ExportJobFinished {
		return nil, appErrors.Clone(appErrors.ErrConflict, "export not ready")
	}
	if job.ResultPath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		File:        file,
		Filename:    filepath.Base(relPath),
		ContentType: contentTypes[job.Format],
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *ExportJobService) loadJob(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// StartCleanup boots a goroutine that purges expired archives periodically.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// CleanupExpired forgets jobs finished more than ResultTTL ago and deletes their files.
func (s *ExportJobService) CleanupExpired(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	for {
		expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
		if err != nil {
			s.logger.Warn("cleanup list failed", zap.Error(err))
			return
		}
		for _, job := range expired {
			if job.ResultPath != "" {
				if err := s.store.Delete(job.ResultPath); err != nil {
					s.logger.Warn("cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
				}
			}
			_ = s.repo.Delete(ctx, job.ID)
		}
		if len(expired) < 100 {
			break
		}
	}
	if removed, err := s.store.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("files", len(removed)))
	}
}

// ExportJobWorker bridges queue jobs to ExportService.
type ExportJobWorker struct {
	repo         exportJobStore
	exports      timetableRenderer
	store        archiveStore
	signer       *storage.SignedURLSigner
	downloadPath string
	maxRetries   int
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewExportJobWorker constructs a worker. downloadPath prefixes the token in
// result URLs, e.g. "/api/v1/exports/download".
func NewExportJobWorker(repo exportJobStore, exports timetableRenderer, store archiveStore, signer *storage.SignedURLSigner, downloadPath string, maxRetries int, metrics *MetricsService, logger *zap.Logger) *ExportJobWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ExportJobWorker{
		repo:         repo,
		exports:      exports,
		store:        store,
		signer:       signer,
		downloadPath: strings.TrimSuffix(downloadPath, "/"),
		maxRetries:   maxRetries,
		metrics:      metrics,
		logger:       logger,
	}
}

// Handle processes a queue job.
func (w *ExportJobWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			w.logger.Warn("dropping job without record", zap.String("job_id", job.ID))
			return nil
		}
		return err
	}

	processing := models.ExportJobProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &processing, Progress: &progress}); err != nil {
		return err
	}

	result, err := w.exports.Render(ctx, record.FacultyID, record.Format)
	if err != nil {
		return w.fail(ctx, job, err)
	}
	relPath := record.ID + "/" + result.Filename
	if _, err := w.store.Save(relPath, result.Payload); err != nil {
		return w.fail(ctx, job, err)
	}
	token, _, err := w.signer.Generate(record.ID, relPath)
	if err != nil {
		return w.fail(ctx, job, err)
	}

	finished := models.ExportJobFinished
	progress = 100
	now := time.Now().UTC()
	url := w.downloadPath + "/" + token
	empty := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ResultPath:   &relPath,
		ErrorMessage: &empty,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Warn("failed to mark job finished", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}
	w.metrics.RecordExportJob(finished)
	w.logger.Info("export job finished", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(result.Payload)))
	return nil
}

// fail records err on the job, marking it failed once retries are exhausted,
// and returns err so the queue can retry.
func (w *ExportJobWorker) fail(ctx context.Context, job jobs.Job, cause error) error {
	msg := cause.Error()
	params := repository.UpdateExportJobParams{ErrorMessage: &msg}
	if job.Attempt >= w.maxRetries {
		failed := models.ExportJobFailed
		progress := 100
		now := time.Now().UTC()
		params.Status = &failed
		params.Progress = &progress
		params.FinishedAt = &now
		w.metrics.RecordExportJob(failed)
	} else {
		queued := models.ExportJobQueued
		reset := 0
		params.Status = &queued
		params.Progress = &reset
	}
	if err := w.repo.Update(ctx, job.ID, params); err != nil {
		w.logger.Warn("failed to record job failure", zap.String("job_id", job.ID), zap.Error(err))
	}
	return cause
}
