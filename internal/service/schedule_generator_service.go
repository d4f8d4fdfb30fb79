package service

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-locator-api/internal/models"
	"github.com/noah-isme/faculty-locator-api/pkg/config"
)

const (
	defaultClassProbability = 0.7
	defaultMaxRedraws       = 64
)

// RoomPool is the domain rooms are sampled from.
type RoomPool struct {
	Buildings   []string
	Departments []string
	Sections    []string
}

// DefaultRoomPool returns the campus blocks, departments and sections.
func DefaultRoomPool() RoomPool {
	return RoomPool{
		Buildings:   []string{"BLOCK 1", "BLOCK 2", "BLOCK 3", "BLOCK 4"},
		Departments: []string{"AIML", "CSDS", "CSBS", "CSAI", "CSE", "ECE", "MECH", "IT"},
		Sections:    []string{"A", "B", "C"},
	}
}

func (p RoomPool) empty() bool {
	return len(p.Buildings) == 0 || len(p.Departments) == 0 || len(p.Sections) == 0
}

// RoomTracker records building-department-section-startTime combinations already
// handed out so one room is never double booked at the same start time.
type RoomTracker struct {
	mu   sync.Mutex
	used map[string]struct{}
}

// NewRoomTracker returns an empty tracker.
func NewRoomTracker() *RoomTracker {
	return &RoomTracker{used: make(map[string]struct{})}
}

func roomKey(room models.Room, startTime string) string {
	return room.Building + "-" + room.Department + "-" + room.Section + "-" + startTime
}

// Has reports whether the room is taken at startTime.
func (t *RoomTracker) Has(room models.Room, startTime string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.used[roomKey(room, startTime)]
	return ok
}

// Claim marks the room as taken at startTime and reports whether it was free.
func (t *RoomTracker) Claim(room models.Room, startTime string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := roomKey(room, startTime)
	if _, ok := t.used[key]; ok {
		return false
	}
	t.used[key] = struct{}{}
	return true
}

// Len returns the number of claimed combinations.
func (t *RoomTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.used)
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	ClassProbability float64
	MaxRedraws       int
	Rooms            RoomPool
	Overrides        []models.OverrideRule
	Seed             int64
}

// GeneratorConfigFromSchedule maps application config onto the generator.
func GeneratorConfigFromSchedule(cfg config.ScheduleConfig) (ScheduleGeneratorConfig, error) {
	rules := make([]models.OverrideRule, 0, len(cfg.Overrides))
	for _, raw := range cfg.Overrides {
		rule, err := models.ParseOverrideRule(raw)
		if err != nil {
			return ScheduleGeneratorConfig{}, err
		}
		rules = append(rules, rule)
	}
	return ScheduleGeneratorConfig{
		ClassProbability: cfg.ClassProbability,
		MaxRedraws:       cfg.MaxRedraws,
		Overrides:        rules,
		Seed:             cfg.RandomSeed,
	}, nil
}

// ScheduleGenerator builds randomized weekly timetables that respect room
// exclusivity and the configured override table.
type ScheduleGenerator struct {
	catalog     *SlotCatalog
	rooms       RoomPool
	probability float64
	maxRedraws  int
	overrides   map[string]models.OverrideRule
	metrics     *MetricsService
	logger      *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduleGenerator wires generator dependencies.
func NewScheduleGenerator(catalog *SlotCatalog, cfg ScheduleGeneratorConfig, metrics *MetricsService, logger *zap.Logger) *ScheduleGenerator {
	if catalog == nil {
		catalog = DefaultSlotCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ClassProbability <= 0 || cfg.ClassProbability > 1 {
		cfg.ClassProbability = defaultClassProbability
	}
	if cfg.MaxRedraws <= 0 {
		cfg.MaxRedraws = defaultMaxRedraws
	}
	if cfg.Rooms.empty() {
		cfg.Rooms = DefaultRoomPool()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	overrides := make(map[string]models.OverrideRule, len(cfg.Overrides))
	for _, rule := range cfg.Overrides {
		overrides[overrideKey(rule.Name)] = rule
	}

	return &ScheduleGenerator{
		catalog:     catalog,
		rooms:       cfg.Rooms,
		probability: cfg.ClassProbability,
		maxRedraws:  cfg.MaxRedraws,
		overrides:   overrides,
		metrics:     metrics,
		logger:      logger,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}
}

func overrideKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// OverrideFor returns the override rule registered for a faculty name.
func (g *ScheduleGenerator) OverrideFor(name string) (models.OverrideRule, bool) {
	rule, ok := g.overrides[overrideKey(name)]
	return rule, ok
}

// GenerateWeek builds a timetable for every teaching day. A nil tracker scopes
// room exclusivity to this call only.
func (g *ScheduleGenerator) GenerateWeek(name string, tracker *RoomTracker) models.WeekSchedule {
	if tracker == nil {
		tracker = NewRoomTracker()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	rule, hasOverride := g.OverrideFor(name)
	week := make(models.WeekSchedule, len(models.Weekdays))
	for _, day := range models.Weekdays {
		var blocked *models.TimeSlot
		if hasOverride && rule.Day == day {
			blocked = &rule.Window
		}
		week[day] = g.generateDay(tracker, blocked)
	}

	if hasOverride {
		g.applyOverride(week, rule, tracker)
		g.logger.Debug("schedule override applied",
			zap.String("faculty", name),
			zap.String("day", string(rule.Day)),
			zap.String("window", rule.Window.String()),
			zap.String("department", rule.Department),
		)
	}
	return week
}

// generateDay fills the day slot by slot. Slots overlapping blocked are left
// empty so no room is claimed for a session the override would drop.
func (g *ScheduleGenerator) generateDay(tracker *RoomTracker, blocked *models.TimeSlot) models.DaySchedule {
	sessions := make([]models.ClassSession, 0, len(g.catalog.Morning)+1+len(g.catalog.Afternoon))

	draw := func(slot models.TimeSlot) {
		if g.rng.Float64() >= g.probability {
			return
		}
		if blocked != nil && slot.Overlaps(*blocked) {
			return
		}
		sessions = append(sessions, g.classSession(slot, "", tracker))
	}

	for _, slot := range g.catalog.Morning {
		draw(slot)
	}

	sessions = append(sessions, lunchSession(g.catalog.Lunch))

	for _, slot := range g.catalog.Afternoon {
		draw(slot)
	}

	return models.DaySchedule{Sessions: sessions}
}

func lunchSession(slot models.TimeSlot) models.ClassSession {
	return models.ClassSession{
		Room: models.Room{
			Building:   models.BuildingCafeteria,
			Department: models.DepartmentLunchArea,
			Section:    models.SectionNone,
		},
		TimeSlot: slot,
		IsLunch:  true,
	}
}

// classSession draws a free room for the slot. department pins the department
// when non-empty. Redraws are bounded: after maxRedraws the pool is scanned in
// order, and if every combination is taken the last draw is accepted as a duplicate.
func (g *ScheduleGenerator) classSession(slot models.TimeSlot, department string, tracker *RoomTracker) models.ClassSession {
	var room models.Room
	for attempt := 0; attempt < g.maxRedraws; attempt++ {
		room = g.randomRoom(department)
		if tracker.Claim(room, slot.StartTime) {
			return models.ClassSession{Room: room, TimeSlot: slot}
		}
		g.metrics.RecordRoomRedraw()
	}

	if free, ok := g.firstFreeRoom(slot.StartTime, department, tracker); ok {
		tracker.Claim(free, slot.StartTime)
		return models.ClassSession{Room: free, TimeSlot: slot}
	}

	g.metrics.RecordRoomCollision()
	g.logger.Warn("room pool exhausted, accepting duplicate assignment",
		zap.String("room", roomKey(room, slot.StartTime)),
		zap.Int("claimed", tracker.Len()),
	)
	return models.ClassSession{Room: room, TimeSlot: slot}
}

func (g *ScheduleGenerator) randomRoom(department string) models.Room {
	room := models.Room{
		Building:   g.rooms.Buildings[g.rng.Intn(len(g.rooms.Buildings))],
		Department: g.rooms.Departments[g.rng.Intn(len(g.rooms.Departments))],
		Section:    g.rooms.Sections[g.rng.Intn(len(g.rooms.Sections))],
	}
	if department != "" {
		room.Department = department
	}
	return room
}

func (g *ScheduleGenerator) firstFreeRoom(startTime, department string, tracker *RoomTracker) (models.Room, bool) {
	departments := g.rooms.Departments
	if department != "" {
		departments = []string{department}
	}
	for _, building := range g.rooms.Buildings {
		for _, dept := range departments {
			for _, section := range g.rooms.Sections {
				room := models.Room{Building: building, Department: dept, Section: section}
				if !tracker.Has(room, startTime) {
					return room, true
				}
			}
		}
	}
	return models.Room{}, false
}

// applyOverride drops every non-lunch session on the rule's day that overlaps
// the window and adds a single session covering the whole window.
func (g *ScheduleGenerator) applyOverride(week models.WeekSchedule, rule models.OverrideRule, tracker *RoomTracker) {
	day := week[rule.Day]
	kept := make([]models.ClassSession, 0, len(day.Sessions)+1)
	for _, session := range day.Sessions {
		if session.IsLunch || !session.TimeSlot.Overlaps(rule.Window) {
			kept = append(kept, session)
		}
	}
	kept = append(kept, g.classSession(rule.Window, rule.Department, tracker))
	week[rule.Day] = models.DaySchedule{Sessions: kept}
}

// Describe summarises generator settings for diagnostics.
func (g *ScheduleGenerator) Describe() string {
	return fmt.Sprintf("p=%.2f redraws=%d rooms=%dx%dx%d overrides=%d",
		g.probability, g.maxRedraws,
		len(g.rooms.Buildings), len(g.rooms.Departments), len(g.rooms.Sections),
		len(g.overrides))
}
