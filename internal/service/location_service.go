package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-locator-api/internal/dto"
	"github.com/noah-isme/faculty-locator-api/internal/models"
)

const (
	msgOffHours = "Outside of college hours. Faculty is likely not on campus."
	msgDone     = "No more classes scheduled for today. Faculty may be in their office or off campus."
)

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the host clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

type facultyFinder interface {
	FindByNameOrID(ctx context.Context, query string) (*models.Faculty, error)
}

// LocationService predicts where a faculty member is from their timetable.
type LocationService struct {
	catalog   *SlotCatalog
	clock     Clock
	directory facultyFinder
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewLocationService wires resolver dependencies.
func NewLocationService(catalog *SlotCatalog, clock Clock, directory facultyFinder, metrics *MetricsService, logger *zap.Logger) *LocationService {
	if catalog == nil {
		catalog = DefaultSlotCatalog()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{catalog: catalog, clock: clock, directory: directory, metrics: metrics, logger: logger}
}

// DayOf maps an instant to a teaching day with Monday as day 0. Sunday resolves
// to Saturday's timetable.
func DayOf(now time.Time) models.Weekday {
	wd := now.Weekday()
	if wd == time.Sunday {
		return models.Saturday
	}
	return models.Weekdays[int(wd)-1]
}

// ClockOf renders the wall-clock "HH:MM" of an instant.
func ClockOf(now time.Time) string {
	return now.Format("15:04")
}

// FindCurrentSession returns the session the faculty member is in at now, or nil
// outside school hours or during a free period. Exact slot matches win; failing
// that, a block session (LAB/SRP) still running at now is returned.
func (s *LocationService) FindCurrentSession(faculty *models.Faculty, now time.Time) *models.ClassSession {
	if faculty == nil {
		return nil
	}
	clock := ClockOf(now)
	slot, ok := s.catalog.FindSlotContaining(clock)
	if !ok {
		return nil
	}
	return currentSession(faculty.Schedule[DayOf(now)], slot, clock)
}

func currentSession(day models.DaySchedule, slot models.TimeSlot, clock string) *models.ClassSession {
	for i := range day.Sessions {
		if day.Sessions[i].TimeSlot == slot {
			session := day.Sessions[i]
			return &session
		}
	}
	for i := range day.Sessions {
		if !day.Sessions[i].IsLunch && day.Sessions[i].TimeSlot.Contains(clock) {
			session := day.Sessions[i]
			return &session
		}
	}
	return nil
}

// nextSession picks the earliest session starting strictly after startTime;
// ties go to the first in stored order.
func nextSession(day models.DaySchedule, startTime string) *models.ClassSession {
	var next *models.ClassSession
	for i := range day.Sessions {
		candidate := day.Sessions[i]
		if candidate.TimeSlot.StartTime <= startTime {
			continue
		}
		if next == nil || candidate.TimeSlot.StartTime < next.TimeSlot.StartTime {
			next = &candidate
		}
	}
	return next
}

// Describe produces the human-facing status for a faculty member at now. A nil
// faculty yields a status with only Day and Time set; lookups report absence
// before calling it.
func (s *LocationService) Describe(faculty *models.Faculty, now time.Time) models.LocationStatus {
	status := models.LocationStatus{Day: DayOf(now), Time: ClockOf(now)}
	if faculty == nil {
		return status
	}
	defer func() { s.metrics.RecordLocationLookup(status.Kind) }()

	slot, ok := s.catalog.FindSlotContaining(status.Time)
	if !ok {
		status.Kind = models.SessionKindOffHours
		status.Message = msgOffHours
		return status
	}
	status.Slot = &slot

	day := faculty.Schedule[status.Day]
	if current := currentSession(day, slot, status.Time); current != nil {
		status.Session = current
		status.Kind = current.Kind()
		status.Message = describeSession(*current)
		return status
	}

	if next := nextSession(day, slot.StartTime); next != nil {
		status.Kind = models.SessionKindFree
		status.Next = next
		status.Message = describeNext(*next)
		return status
	}

	status.Kind = models.SessionKindDone
	status.Message = msgDone
	return status
}

func describeSession(session models.ClassSession) string {
	window := fmt.Sprintf("(%s)", session.TimeSlot)
	room := session.Room
	switch session.Kind() {
	case models.SessionKindLunch:
		return "Currently at lunch in the Cafeteria " + window
	case models.SessionKindLab:
		return fmt.Sprintf("Currently in a LAB session in %s, Section %s %s", room.Building, room.Section, window)
	case models.SessionKindResearch:
		return fmt.Sprintf("Currently in an SRP session in %s, Section %s %s", room.Building, room.Section, window)
	default:
		return fmt.Sprintf("Currently teaching in %s, %s Section %s %s", room.Building, room.Department, room.Section, window)
	}
}

func describeNext(next models.ClassSession) string {
	if next.IsLunch {
		return fmt.Sprintf("Free period. Next: lunch at %s in the Cafeteria.", next.TimeSlot.StartTime)
	}
	return fmt.Sprintf("Free period. Next class at %s in %s, %s Section %s.",
		next.TimeSlot.StartTime, next.Room.Building, next.Room.Department, next.Room.Section)
}

// Locate looks a faculty member up and describes their location at the given
// instant, or at the clock's current time when at is nil.
func (s *LocationService) Locate(ctx context.Context, query string, at *time.Time) (*dto.LocationResponse, error) {
	faculty, err := s.directory.FindByNameOrID(ctx, query)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if at != nil {
		now = at.In(now.Location())
	}
	status := s.Describe(faculty, now)
	s.logger.Debug("location resolved",
		zap.String("faculty", faculty.ID),
		zap.String("day", string(status.Day)),
		zap.String("time", status.Time),
		zap.String("kind", string(status.Kind)),
	)
	return &dto.LocationResponse{
		Faculty: models.FacultySummary{ID: faculty.ID, Name: faculty.Name},
		Status:  status,
	}, nil
}

// Catalog exposes the slot catalog used for resolution.
func (s *LocationService) Catalog() *SlotCatalog {
	return s.catalog
}
