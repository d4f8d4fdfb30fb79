package models

// Faculty is a staff member with a weekly timetable.
type Faculty struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Schedule WeekSchedule `json:"schedule"`
}

// FacultySummary is the listing projection of a faculty record.
type FacultySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FacultyFilter captures listing options.
type FacultyFilter struct {
	Search   string
	Page     int
	PageSize int
}

// Pagination describes page metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
