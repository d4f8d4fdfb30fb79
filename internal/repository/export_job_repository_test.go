package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-locator-api/internal/models"
)

func TestExportJobRepositoryLifecycle(t *testing.T) {
	repo := NewExportJobRepository()
	ctx := context.Background()

	job := &models.ExportJob{FacultyID: "F001", Format: "csv", Status: models.ExportJobQueued}
	require.NoError(t, repo.Create(ctx, job))
	require.NotEmpty(t, job.ID)
	require.False(t, job.CreatedAt.IsZero())

	status := models.ExportJobFinished
	progress := 100
	url := "/api/v1/exports/download/token"
	msg := "boom"
	require.NoError(t, repo.Update(ctx, job.ID, UpdateExportJobParams{Status: &status, Progress: &progress, ResultURL: &url, ErrorMessage: &msg}))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportJobFinished, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	assert.Equal(t, url, *stored.ResultURL)
	require.NotNil(t, stored.ErrorMessage)

	empty := ""
	require.NoError(t, repo.Update(ctx, job.ID, UpdateExportJobParams{ErrorMessage: &empty}))
	stored, err = repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ErrorMessage)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrJobNotFound)
	require.ErrorIs(t, repo.Update(ctx, "missing", UpdateExportJobParams{}), ErrJobNotFound)
}

func TestExportJobRepositoryListFinishedBefore(t *testing.T) {
	repo := NewExportJobRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	for i, age := range []time.Duration{3 * time.Hour, time.Hour, 2 * time.Hour} {
		job := &models.ExportJob{ID: []string{"a", "b", "c"}[i]}
		require.NoError(t, repo.Create(ctx, job))
		finished := now.Add(-age)
		require.NoError(t, repo.Update(ctx, job.ID, UpdateExportJobParams{FinishedAt: &finished}))
	}
	require.NoError(t, repo.Create(ctx, &models.ExportJob{ID: "pending"}))

	jobs, err := repo.ListFinishedBefore(ctx, now.Add(-90*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "c", jobs[1].ID)

	jobs, err = repo.ListFinishedBefore(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.GetByID(ctx, "a")
	require.ErrorIs(t, err, ErrJobNotFound)
}
