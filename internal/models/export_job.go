package models

import "time"

// ExportJobStatus captures background export lifecycle states.
type ExportJobStatus string

const (
	ExportJobQueued     ExportJobStatus = "QUEUED"
	ExportJobProcessing ExportJobStatus = "PROCESSING"
	ExportJobFinished   ExportJobStatus = "FINISHED"
	ExportJobFailed     ExportJobStatus = "FAILED"
)

// ExportJob tracks an asynchronous timetable export.
type ExportJob struct {
	ID           string          `json:"id"`
	FacultyID    string          `json:"faculty_id"`
	FacultyName  string          `json:"faculty_name"`
	Format       string          `json:"format"`
	Status       ExportJobStatus `json:"status"`
	Progress     int             `json:"progress"`
	ResultURL    *string         `json:"result_url,omitempty"`
	ResultPath   string          `json:"-"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}
