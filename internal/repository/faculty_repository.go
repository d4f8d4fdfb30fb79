package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/noah-isme/faculty-locator-api/internal/models"
)

// FacultyRepository is the append-only in-memory faculty directory. Each
// instance owns its records; there is no package level state.
type FacultyRepository struct {
	mu      sync.RWMutex
	records []models.Faculty
}

// NewFacultyRepository constructs an empty FacultyRepository.
func NewFacultyRepository() *FacultyRepository {
	return &FacultyRepository{}
}

func formatFacultyID(seq int) string {
	return fmt.Sprintf("F%03d", seq)
}

// Create allocates the next sequential id, builds the schedule through build and
// appends the record. Allocation and append happen in one critical section.
func (r *FacultyRepository) Create(ctx context.Context, name string, build func(id string) models.WeekSchedule) (*models.Faculty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := formatFacultyID(len(r.records) + 1)
	record := models.Faculty{ID: id, Name: name, Schedule: build(id)}
	r.records = append(r.records, record)

	out := record
	out.Schedule = record.Schedule.Clone()
	return &out, nil
}

// FindByNameOrID matches name or id case-insensitively; the first inserted match wins.
func (r *FacultyRepository) FindByNameOrID(ctx context.Context, query string) (*models.Faculty, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if strings.ToLower(record.Name) == needle || strings.ToLower(record.ID) == needle {
			out := record
			out.Schedule = record.Schedule.Clone()
			return &out, true
		}
	}
	return nil, false
}

// Names returns every faculty name in insertion order.
func (r *FacultyRepository) Names(ctx context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.records))
	for _, record := range r.records {
		names = append(names, record.Name)
	}
	return names
}

// List returns summaries matching the filter along with the total match count.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultySummary, int) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	r.mu.RLock()
	matches := make([]models.FacultySummary, 0, len(r.records))
	for _, record := range r.records {
		if search != "" && !strings.Contains(strings.ToLower(record.Name), search) && !strings.Contains(strings.ToLower(record.ID), search) {
			continue
		}
		matches = append(matches, models.FacultySummary{ID: record.ID, Name: record.Name})
	}
	r.mu.RUnlock()

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	total := len(matches)
	start := (page - 1) * size
	if start >= total {
		return []models.FacultySummary{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return matches[start:end], total
}

// Count returns the number of stored records.
func (r *FacultyRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
