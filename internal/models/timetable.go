package models

import (
	"fmt"
	"strings"
)

// Sentinel room values used for lunch and fixed commitments.
const (
	BuildingCafeteria   = "CAFETERIA"
	DepartmentLunchArea = "LUNCH AREA"
	DepartmentLab       = "LAB"
	DepartmentResearch  = "SRP"
	SectionNone         = "-"
)

// Weekday identifies a teaching day. Sunday is not a teaching day.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// Weekdays lists teaching days in calendar order; the index is the Monday=0 day number.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseWeekday accepts full or three letter day names in any case.
func ParseWeekday(raw string) (Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, day := range Weekdays {
		if value == string(day) || (len(value) == 3 && strings.HasPrefix(string(day), value)) {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// Title renders the day for display, e.g. "Monday".
func (d Weekday) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Room identifies a physical teaching location.
type Room struct {
	Building   string `json:"building" validate:"required,max=50"`
	Department string `json:"department" validate:"required,max=50"`
	Section    string `json:"section" validate:"required,max=10"`
}

// TimeSlot is a zero-padded "HH:MM" window. Lexicographic comparison of the
// bounds is valid only because both are fixed width.
type TimeSlot struct {
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// Contains reports whether start <= t < end.
func (s TimeSlot) Contains(t string) bool {
	return s.StartTime <= t && t < s.EndTime
}

// Overlaps reports whether both windows share any instant.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// Validate checks the clock format and ordering of the bounds.
func (s TimeSlot) Validate() error {
	if !IsClock(s.StartTime) {
		return fmt.Errorf("invalid start time %q", s.StartTime)
	}
	if !IsClock(s.EndTime) {
		return fmt.Errorf("invalid end time %q", s.EndTime)
	}
	if s.StartTime >= s.EndTime {
		return fmt.Errorf("slot %s must start before it ends", s)
	}
	return nil
}

func (s TimeSlot) String() string {
	return s.StartTime + " - " + s.EndTime
}

// ParseTimeSlot reads "HH:MM-HH:MM".
func ParseTimeSlot(raw string) (TimeSlot, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return TimeSlot{}, fmt.Errorf("time slot %q must look like HH:MM-HH:MM", raw)
	}
	slot := TimeSlot{StartTime: strings.TrimSpace(start), EndTime: strings.TrimSpace(end)}
	if err := slot.Validate(); err != nil {
		return TimeSlot{}, err
	}
	return slot, nil
}

// IsClock reports whether raw is a zero-padded 24h "HH:MM".
func IsClock(raw string) bool {
	if len(raw) != 5 || raw[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return raw[:2] <= "23" && raw[3:] <= "59"
}

// ClassSession is one scheduled occupancy of a room, or the cafeteria, for a slot.
type ClassSession struct {
	Room     Room     `json:"room" validate:"required"`
	TimeSlot TimeSlot `json:"time_slot" validate:"required"`
	IsLunch  bool     `json:"is_lunch"`
}

// Kind classifies the session from its sentinel room values.
func (s ClassSession) Kind() SessionKind {
	switch {
	case s.IsLunch || s.Room.Building == BuildingCafeteria:
		return SessionKindLunch
	case s.Room.Department == DepartmentLab:
		return SessionKindLab
	case s.Room.Department == DepartmentResearch:
		return SessionKindResearch
	default:
		return SessionKindClass
	}
}

// DaySchedule holds a day's sessions in stored order.
type DaySchedule struct {
	Sessions []ClassSession `json:"sessions" validate:"dive"`
}

// Lunch returns the first lunch session of the day.
func (d DaySchedule) Lunch() (ClassSession, bool) {
	for _, session := range d.Sessions {
		if session.IsLunch {
			return session, true
		}
	}
	return ClassSession{}, false
}

// WeekSchedule maps every teaching day to its schedule.
type WeekSchedule map[Weekday]DaySchedule

// NewWeekSchedule returns a schedule with every teaching day present and empty.
func NewWeekSchedule() WeekSchedule {
	week := make(WeekSchedule, len(Weekdays))
	for _, day := range Weekdays {
		week[day] = DaySchedule{Sessions: []ClassSession{}}
	}
	return week
}

// Complete reports whether all six teaching days are present.
func (w WeekSchedule) Complete() bool {
	for _, day := range Weekdays {
		if _, ok := w[day]; !ok {
			return false
		}
	}
	return true
}

// Normalize fills in missing teaching days with empty schedules.
func (w WeekSchedule) Normalize() WeekSchedule {
	if w == nil {
		return NewWeekSchedule()
	}
	for _, day := range Weekdays {
		if _, ok := w[day]; !ok {
			w[day] = DaySchedule{Sessions: []ClassSession{}}
		}
	}
	return w
}

// Clone deep copies the schedule so callers cannot mutate stored records.
func (w WeekSchedule) Clone() WeekSchedule {
	if w == nil {
		return nil
	}
	out := make(WeekSchedule, len(w))
	for day, schedule := range w {
		sessions := make([]ClassSession, len(schedule.Sessions))
		copy(sessions, schedule.Sessions)
		out[day] = DaySchedule{Sessions: sessions}
	}
	return out
}

// OverrideRule replaces generated sessions inside Window on Day with a single
// session whose department is Department.
type OverrideRule struct {
	Name       string   `json:"name"`
	Day        Weekday  `json:"day"`
	Window     TimeSlot `json:"window"`
	Department string   `json:"department"`
}

// ParseOverrideRule reads "name|day|HH:MM|HH:MM|DEPT".
func ParseOverrideRule(raw string) (OverrideRule, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 5 {
		return OverrideRule{}, fmt.Errorf("override %q must have 5 '|' separated fields", raw)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return OverrideRule{}, fmt.Errorf("override %q has an empty name", raw)
	}
	day, err := ParseWeekday(parts[1])
	if err != nil {
		return OverrideRule{}, err
	}
	window := TimeSlot{StartTime: strings.TrimSpace(parts[2]), EndTime: strings.TrimSpace(parts[3])}
	if err := window.Validate(); err != nil {
		return OverrideRule{}, fmt.Errorf("override %q: %w", name, err)
	}
	dept := strings.ToUpper(strings.TrimSpace(parts[4]))
	if dept == "" {
		return OverrideRule{}, fmt.Errorf("override %q has an empty department", name)
	}
	return OverrideRule{Name: name, Day: day, Window: window, Department: dept}, nil
}
