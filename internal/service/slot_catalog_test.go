package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-locator-api/internal/models"
	"github.com/noah-isme/faculty-locator-api/pkg/config"
)

func slot(start, end string) models.TimeSlot {
	return models.TimeSlot{StartTime: start, EndTime: end}
}

func TestDefaultSlotCatalogIsContiguous(t *testing.T) {
	catalog := DefaultSlotCatalog()
	all := catalog.All()
	require.Len(t, all, 8)
	for i := 0; i+1 < len(all); i++ {
		assert.Equal(t, all[i].EndTime, all[i+1].StartTime)
		assert.Less(t, all[i].StartTime, all[i].EndTime)
	}
	start, end := catalog.Bounds()
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "15:30", end)
	assert.Equal(t, slot("11:45", "12:10"), catalog.Lunch)
}

func TestFindSlotContaining(t *testing.T) {
	catalog := DefaultSlotCatalog()

	got, ok := catalog.FindSlotContaining("09:00")
	require.True(t, ok)
	assert.Equal(t, slot("09:00", "09:55"), got)

	got, ok = catalog.FindSlotContaining("09:54")
	require.True(t, ok)
	assert.Equal(t, slot("09:00", "09:55"), got)

	got, ok = catalog.FindSlotContaining("09:55")
	require.True(t, ok)
	assert.Equal(t, slot("09:55", "10:50"), got)

	got, ok = catalog.FindSlotContaining("15:29")
	require.True(t, ok)
	assert.Equal(t, slot("14:55", "15:30"), got)

	for _, outside := range []string{"00:00", "08:59", "15:30", "18:45"} {
		_, ok := catalog.FindSlotContaining(outside)
		assert.False(t, ok, outside)
	}
}

func TestFindSlotContainingEveryMinuteHitsExactlyOneSlot(t *testing.T) {
	catalog := DefaultSlotCatalog()
	for h := 9; h < 16; h++ {
		for m := 0; m < 60; m++ {
			clock := fmt.Sprintf("%02d:%02d", h, m)
			if clock >= "15:30" {
				continue
			}
			hits := 0
			for _, s := range catalog.All() {
				if s.Contains(clock) {
					hits++
				}
			}
			assert.Equal(t, 1, hits, clock)
		}
	}
}

func TestFindSlotContainingReportsGaps(t *testing.T) {
	catalog := &SlotCatalog{all: []models.TimeSlot{slot("09:00", "10:00"), slot("12:30", "13:00")}}

	_, ok := catalog.FindSlotContaining("12:10")
	assert.False(t, ok)
	got, ok := catalog.FindSlotContaining("12:30")
	require.True(t, ok)
	assert.Equal(t, slot("12:30", "13:00"), got)
}

func TestNewSlotCatalogRejectsGapsAndOverlaps(t *testing.T) {
	_, err := NewSlotCatalog(
		[]models.TimeSlot{slot("09:00", "09:55"), slot("10:00", "10:50")},
		slot("10:50", "11:30"), nil)
	require.Error(t, err)

	_, err = NewSlotCatalog(
		[]models.TimeSlot{slot("09:00", "09:55"), slot("09:55", "11:45")},
		slot("11:30", "12:10"), nil)
	require.Error(t, err)

	_, err = NewSlotCatalog(nil, slot("12:10", "11:30"), nil)
	require.Error(t, err)
}

func TestSlotCatalogFromConfig(t *testing.T) {
	catalog, err := SlotCatalogFromConfig(config.ScheduleConfig{
		MorningSlots:   []string{"09:00-09:55", "09:55-10:50", "10:50-11:45"},
		LunchSlot:      "11:45-12:40",
		AfternoonSlots: []string{"12:40-13:35", "13:35-14:30", "14:30-15:25"},
	})
	require.NoError(t, err)
	assert.Len(t, catalog.All(), 7)

	got, ok := catalog.FindSlotContaining("12:10")
	require.True(t, ok)
	assert.Equal(t, slot("11:45", "12:40"), got)
	_, ok = catalog.FindSlotContaining("15:25")
	assert.False(t, ok)

	defaults, err := SlotCatalogFromConfig(config.ScheduleConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSlotCatalog().All(), defaults.All())

	_, err = SlotCatalogFromConfig(config.ScheduleConfig{MorningSlots: []string{"bad"}, LunchSlot: "11:45-12:40"})
	require.Error(t, err)
}
