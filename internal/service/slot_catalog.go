package service

import (
	"fmt"

	"github.com/noah-isme/faculty-locator-api/internal/models"
	"github.com/noah-isme/faculty-locator-api/pkg/config"
)

// SlotCatalog is the fixed ordered sequence of periods shared by every day.
type SlotCatalog struct {
	Morning   []models.TimeSlot `json:"morning"`
	Lunch     models.TimeSlot   `json:"lunch"`
	Afternoon []models.TimeSlot `json:"afternoon"`

	all []models.TimeSlot
}

// NewSlotCatalog validates the slots and their contiguity.
func NewSlotCatalog(morning []models.TimeSlot, lunch models.TimeSlot, afternoon []models.TimeSlot) (*SlotCatalog, error) {
	all := make([]models.TimeSlot, 0, len(morning)+1+len(afternoon))
	all = append(all, morning...)
	all = append(all, lunch)
	all = append(all, afternoon...)

	for i, slot := range all {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
		if i > 0 && all[i-1].EndTime != slot.StartTime {
			return nil, fmt.Errorf("slot %s does not start where %s ends", slot, all[i-1])
		}
	}

	return &SlotCatalog{
		Morning:   append([]models.TimeSlot(nil), morning...),
		Lunch:     lunch,
		Afternoon: append([]models.TimeSlot(nil), afternoon...),
		all:       all,
	}, nil
}

// DefaultSlotCatalog covers 09:00-15:30 with a short lunch break.
func DefaultSlotCatalog() *SlotCatalog {
	catalog, err := NewSlotCatalog(
		[]models.TimeSlot{
			{StartTime: "09:00", EndTime: "09:55"},
			{StartTime: "09:55", EndTime: "10:50"},
			{StartTime: "10:50", EndTime: "11:45"},
		},
		models.TimeSlot{StartTime: "11:45", EndTime: "12:10"},
		[]models.TimeSlot{
			{StartTime: "12:10", EndTime: "13:05"},
			{StartTime: "13:05", EndTime: "14:00"},
			{StartTime: "14:00", EndTime: "14:55"},
			{StartTime: "14:55", EndTime: "15:30"},
		},
	)
	if err != nil {
		panic(err)
	}
	return catalog
}

// SlotCatalogFromConfig parses the "HH:MM-HH:MM" lists from configuration.
func SlotCatalogFromConfig(cfg config.ScheduleConfig) (*SlotCatalog, error) {
	if len(cfg.MorningSlots) == 0 && cfg.LunchSlot == "" && len(cfg.AfternoonSlots) == 0 {
		return DefaultSlotCatalog(), nil
	}
	morning, err := parseSlots(cfg.MorningSlots)
	if err != nil {
		return nil, fmt.Errorf("morning slots: %w", err)
	}
	lunch, err := models.ParseTimeSlot(cfg.LunchSlot)
	if err != nil {
		return nil, fmt.Errorf("lunch slot: %w", err)
	}
	afternoon, err := parseSlots(cfg.AfternoonSlots)
	if err != nil {
		return nil, fmt.Errorf("afternoon slots: %w", err)
	}
	return NewSlotCatalog(morning, lunch, afternoon)
}

func parseSlots(raw []string) ([]models.TimeSlot, error) {
	slots := make([]models.TimeSlot, 0, len(raw))
	for _, item := range raw {
		slot, err := models.ParseTimeSlot(item)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// All returns every slot in order, lunch included.
func (c *SlotCatalog) All() []models.TimeSlot {
	return append([]models.TimeSlot(nil), c.all...)
}

// Bounds returns the first start and last end of the teaching day.
func (c *SlotCatalog) Bounds() (string, string) {
	if len(c.all) == 0 {
		return "", ""
	}
	return c.all[0].StartTime, c.all[len(c.all)-1].EndTime
}

// FindSlotContaining returns the slot with start <= t < end. A miss means t is
// outside school hours.
func (c *SlotCatalog) FindSlotContaining(t string) (models.TimeSlot, bool) {
	for _, slot := range c.all {
		if slot.Contains(t) {
			return slot, true
		}
	}
	return models.TimeSlot{}, false
}
