package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-locator-api/internal/models"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
	"github.com/noah-isme/faculty-locator-api/pkg/export"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatICS:  "text/calendar",
}

var timetableHeaders = []string{"Day", "Start", "End", "Kind", "Building", "Department", "Section"}

// ExportResult is a rendered timetable attachment.
type ExportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Payload     []byte `json:"payload"`
	Cached      bool   `json:"-"`
}

// ExportServiceConfig governs export behaviour.
type ExportServiceConfig struct {
	Formats      []string
	CacheTTL     time.Duration
	CalendarName string
}

// ExportService renders weekly timetables into downloadable formats.
type ExportService struct {
	directory    facultyFinder
	cache        *CacheService
	clock        Clock
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	xlsx         *export.XLSXExporter
	ics          *export.ICSExporter
	formats      map[string]bool
	cacheTTL     time.Duration
	calendarName string
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewExportService wires exporters. An empty format list enables every format.
func NewExportService(directory facultyFinder, cache *CacheService, clock Clock, cfg ExportServiceConfig, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	formats := make(map[string]bool, len(contentTypes))
	for _, format := range cfg.Formats {
		if _, ok := contentTypes[format]; ok {
			formats[format] = true
		}
	}
	if len(formats) == 0 {
		for format := range contentTypes {
			formats[format] = true
		}
	}
	if cfg.CalendarName == "" {
		cfg.CalendarName = "Faculty Timetable"
	}
	return &ExportService{
		directory:    directory,
		cache:        cache,
		clock:        clock,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		xlsx:         export.NewXLSXExporter(),
		ics:          export.NewICSExporter(),
		formats:      formats,
		cacheTTL:     cfg.CacheTTL,
		calendarName: cfg.CalendarName,
		metrics:      metrics,
		logger:       logger,
	}
}

// Formats returns the enabled formats in sorted order.
func (s *ExportService) Formats() []string {
	out := make([]string, 0, len(s.formats))
	for format := range s.formats {
		out = append(out, format)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether format is enabled.
func (s *ExportService) Supports(format string) bool {
	return s.formats[strings.ToLower(strings.TrimSpace(format))]
}

// Render exports the timetable of the faculty matching query.
func (s *ExportService) Render(ctx context.Context, query, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !s.formats[format] {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("format %q is not enabled", format))
	}
	faculty, err := s.directory.FindByNameOrID(ctx, query)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	key := fmt.Sprintf("%s%s:%s", exportKeyPrefix, faculty.ID, format)
	if format == FormatICS {
		key += ":" + weekAnchor(now).Format("2006-01-02")
	}

	var cached ExportResult
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		cached.Cached = true
		return &cached, nil
	}

	payload, err := s.render(faculty, format, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	result := &ExportResult{
		Filename:    fmt.Sprintf("%s-timetable.%s", strings.ToLower(faculty.ID), format),
		ContentType: contentTypes[format],
		Payload:     payload,
	}
	_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	s.metrics.RecordExport(format)
	s.logger.Debug("timetable exported", zap.String("faculty", faculty.ID), zap.String("format", format), zap.Int("bytes", len(payload)))
	return result, nil
}

func (s *ExportService) render(faculty *models.Faculty, format string, now time.Time) ([]byte, error) {
	switch format {
	case FormatCSV:
		return s.csv.Render(TimetableDataset(faculty))
	case FormatPDF:
		return s.pdf.Render(TimetableDataset(faculty))
	case FormatXLSX:
		return s.xlsx.Render(TimetableDataset(faculty))
	case FormatICS:
		events, err := CalendarEvents(faculty, weekAnchor(now))
		if err != nil {
			return nil, err
		}
		return s.ics.Render(fmt.Sprintf("%s - %s", s.calendarName, faculty.Name), events, now)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func sortedSessions(day models.DaySchedule) []models.ClassSession {
	sessions := append([]models.ClassSession(nil), day.Sessions...)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].TimeSlot.StartTime < sessions[j].TimeSlot.StartTime
	})
	return sessions
}

// TimetableDataset flattens a week into one row per session, day by day.
func TimetableDataset(faculty *models.Faculty) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("%s (%s) weekly timetable", faculty.Name, faculty.ID),
		Headers: timetableHeaders,
		GroupBy: "Day",
	}
	for _, day := range models.Weekdays {
		for _, session := range sortedSessions(faculty.Schedule[day]) {
			data.Rows = append(data.Rows, map[string]string{
				"Day":        day.Title(),
				"Start":      session.TimeSlot.StartTime,
				"End":        session.TimeSlot.EndTime,
				"Kind":       string(session.Kind()),
				"Building":   session.Room.Building,
				"Department": session.Room.Department,
				"Section":    session.Room.Section,
			})
		}
	}
	return data
}

// weekAnchor returns midnight on the Monday of the teaching week containing now.
func weekAnchor(now time.Time) time.Time {
	offset := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

func atClock(day time.Time, clock string) (time.Time, error) {
	if len(clock) != 5 {
		return time.Time{}, fmt.Errorf("invalid clock %q", clock)
	}
	hh, err := strconv.Atoi(clock[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q", clock)
	}
	mm, err := strconv.Atoi(clock[3:])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q", clock)
	}
	return day.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute), nil
}

// CalendarEvents turns every session into a weekly recurring event starting in
// the week anchored at monday.
func CalendarEvents(faculty *models.Faculty, monday time.Time) ([]export.CalendarEvent, error) {
	var events []export.CalendarEvent
	for idx, day := range models.Weekdays {
		date := monday.AddDate(0, 0, idx)
		for pos, session := range sortedSessions(faculty.Schedule[day]) {
			if !models.IsClock(session.TimeSlot.StartTime) || !models.IsClock(session.TimeSlot.EndTime) {
				return nil, fmt.Errorf("session on %s has invalid slot %s", day, session.TimeSlot)
			}
			start, err := atClock(date, session.TimeSlot.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := atClock(date, session.TimeSlot.EndTime)
			if err != nil {
				return nil, err
			}
			room := session.Room
			seed := fmt.Sprintf("%s/%s/%d/%s/%s/%s/%s", faculty.ID, day, pos, session.TimeSlot.StartTime, room.Building, room.Department, room.Section)
			events = append(events, export.CalendarEvent{
				UID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String(),
				Summary:     eventSummary(session),
				Location:    eventLocation(session),
				Description: fmt.Sprintf("%s (%s)", faculty.Name, faculty.ID),
				Start:       start,
				End:         end,
				Weekly:      true,
			})
		}
	}
	return events, nil
}

func eventSummary(session models.ClassSession) string {
	switch session.Kind() {
	case models.SessionKindLunch:
		return "Lunch"
	case models.SessionKindLab:
		return "LAB"
	case models.SessionKindResearch:
		return "SRP"
	default:
		return fmt.Sprintf("%s Section %s", session.Room.Department, session.Room.Section)
	}
}

func eventLocation(session models.ClassSession) string {
	if session.IsLunch {
		return "Cafeteria"
	}
	return fmt.Sprintf("%s, Section %s", session.Room.Building, session.Room.Section)
}
