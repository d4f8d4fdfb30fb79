package dto

import "github.com/noah-isme/faculty-locator-api/internal/models"

// CreateFacultyRequest registers a faculty member with a generated timetable.
type CreateFacultyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateCustomFacultyRequest registers a faculty member with a caller supplied timetable.
type CreateCustomFacultyRequest struct {
	Name     string                                `json:"name" validate:"required,max=100"`
	Schedule map[models.Weekday]models.DaySchedule `json:"schedule" validate:"required,dive,keys,oneof=monday tuesday wednesday thursday friday saturday,endkeys"`
}

// FacultyNamesResponse lists every faculty name in insertion order.
type FacultyNamesResponse struct {
	Names []string `json:"names"`
	Total int      `json:"total"`
}

// SlotCatalogResponse exposes the daily period catalog.
type SlotCatalogResponse struct {
	Morning   []models.TimeSlot `json:"morning"`
	Lunch     models.TimeSlot   `json:"lunch"`
	Afternoon []models.TimeSlot `json:"afternoon"`
	Start     string            `json:"start"`
	End       string            `json:"end"`
}

// LocationResponse pairs a faculty summary with its predicted location.
type LocationResponse struct {
	Faculty models.FacultySummary `json:"faculty"`
	Status  models.LocationStatus `json:"status"`
}

// ExportRequest selects the timetable export format.
type ExportRequest struct {
	Format string `form:"format" validate:"required,oneof=csv pdf xlsx ics"`
}

// ExportJobRequest queues a background timetable export.
type ExportJobRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf xlsx ics"`
}

// ExportJobResponse acknowledges a queued export.
type ExportJobResponse struct {
	ID       string                 `json:"id"`
	Status   models.ExportJobStatus `json:"status"`
	Progress int                    `json:"progress"`
}

// ExportJobStatusResponse reports export progress and, once finished, the download URL.
type ExportJobStatusResponse struct {
	ID        string                 `json:"id"`
	FacultyID string                 `json:"faculty_id"`
	Format    string                 `json:"format"`
	Status    models.ExportJobStatus `json:"status"`
	Progress  int                    `json:"progress"`
	ResultURL *string                `json:"result_url,omitempty"`
	Error     *string                `json:"error,omitempty"`
}
