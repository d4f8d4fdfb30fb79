package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsClock(t *testing.T) {
	assert.True(t, IsClock("09:00"))
	assert.True(t, IsClock("23:59"))
	assert.False(t, IsClock("9:00"))
	assert.False(t, IsClock("24:00"))
	assert.False(t, IsClock("12:60"))
	assert.False(t, IsClock("12-00"))
}

func TestParseTimeSlot(t *testing.T) {
	slot, err := ParseTimeSlot(" 09:00 - 09:55 ")
	require.NoError(t, err)
	assert.Equal(t, TimeSlot{StartTime: "09:00", EndTime: "09:55"}, slot)

	_, err = ParseTimeSlot("10:00-09:00")
	require.Error(t, err)
	_, err = ParseTimeSlot("10:00")
	require.Error(t, err)
}

func TestTimeSlotContainsAndOverlaps(t *testing.T) {
	slot := TimeSlot{StartTime: "13:05", EndTime: "14:00"}
	assert.True(t, slot.Contains("13:05"))
	assert.True(t, slot.Contains("13:59"))
	assert.False(t, slot.Contains("14:00"))

	assert.True(t, slot.Overlaps(TimeSlot{StartTime: "12:10", EndTime: "13:06"}))
	assert.False(t, slot.Overlaps(TimeSlot{StartTime: "12:10", EndTime: "13:05"}))
	assert.False(t, slot.Overlaps(TimeSlot{StartTime: "14:00", EndTime: "14:55"}))
}

func TestParseOverrideRule(t *testing.T) {
	rule, err := ParseOverrideRule("Nethrasri|Mon|13:05|15:30|lab")
	require.NoError(t, err)
	assert.Equal(t, "Nethrasri", rule.Name)
	assert.Equal(t, Monday, rule.Day)
	assert.Equal(t, TimeSlot{StartTime: "13:05", EndTime: "15:30"}, rule.Window)
	assert.Equal(t, DepartmentLab, rule.Department)

	_, err = ParseOverrideRule("Nethrasri|sunday|13:05|15:30|LAB")
	require.Error(t, err)
	_, err = ParseOverrideRule("Nethrasri|monday|15:30|13:05|LAB")
	require.Error(t, err)
	_, err = ParseOverrideRule("missing|fields")
	require.Error(t, err)
}

func TestSessionKind(t *testing.T) {
	lunch := ClassSession{Room: Room{Building: BuildingCafeteria, Department: DepartmentLunchArea, Section: SectionNone}, IsLunch: true}
	assert.Equal(t, SessionKindLunch, lunch.Kind())
	assert.Equal(t, SessionKindLab, ClassSession{Room: Room{Building: "BLOCK 1", Department: DepartmentLab}}.Kind())
	assert.Equal(t, SessionKindResearch, ClassSession{Room: Room{Building: "BLOCK 1", Department: DepartmentResearch}}.Kind())
	assert.Equal(t, SessionKindClass, ClassSession{Room: Room{Building: "BLOCK 1", Department: "CSE"}}.Kind())
}

func TestWeekScheduleNormalizeAndClone(t *testing.T) {
	week := WeekSchedule{Monday: {Sessions: []ClassSession{{Room: Room{Building: "BLOCK 1"}}}}}
	assert.False(t, week.Complete())
	week = week.Normalize()
	assert.True(t, week.Complete())

	clone := week.Clone()
	clone[Monday].Sessions[0].Room.Building = "BLOCK 2"
	assert.Equal(t, "BLOCK 1", week[Monday].Sessions[0].Room.Building)
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("Saturday")
	require.NoError(t, err)
	assert.Equal(t, Saturday, day)
	assert.Equal(t, "Saturday", day.Title())
	_, err = ParseWeekday("sun")
	require.Error(t, err)
}
