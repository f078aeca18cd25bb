package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/routinepro/routine-pro-api/internal/models"
)

func slotOn(day, start, end string) models.ScheduleSlot {
	return models.ScheduleSlot{Day: day, Start: start, End: end}
}

func sectionWith(label string, slots ...models.ScheduleSlot) models.Section {
	return models.Section{ID: label, Label: label, Status: models.StatusOpen, Capacity: 40, Schedules: slots}
}

func TestSlotsConflictOverlap(t *testing.T) {
	e := NewEngine(nil)
	a := slotOn("Monday", "09:00 AM", "10:00 AM")
	b := slotOn("Mon", "09:30 AM", "10:30 AM")
	assert.True(t, e.SlotsConflict(a, b, false))
	// Symmetry
	assert.True(t, e.SlotsConflict(b, a, false))
}

func TestSlotsConflictDifferentDays(t *testing.T) {
	e := NewEngine(nil)
	a := slotOn("Monday", "09:00 AM", "10:00 AM")
	b := slotOn("Tuesday", "09:00 AM", "10:00 AM")
	assert.False(t, e.SlotsConflict(a, b, false))
}

func TestSlotsConflictBackToBack(t *testing.T) {
	e := NewEngine(nil)
	a := slotOn("Monday", "09:00 AM", "10:00 AM")
	b := slotOn("Monday", "10:00 AM", "11:00 AM")
	assert.False(t, e.SlotsConflict(a, b, false))
	assert.False(t, e.SlotsConflict(b, a, false))
}

func TestSlotsConflictResolvedByRemap(t *testing.T) {
	custom := models.RemapTable{"09:30 AM - 10:30 AM": {"10:00 AM", "11:00 AM"}}
	e := NewEngine(NewResolver(custom, nil))
	a := slotOn("Monday", "09:00 AM", "10:00 AM")
	b := slotOn("Monday", "09:30 AM", "10:30 AM")
	assert.True(t, e.SlotsConflict(a, b, false), "nominal times overlap")
	assert.False(t, e.SlotsConflict(a, b, true), "remapped times are disjoint")
}

func TestSectionsConflictAnyPair(t *testing.T) {
	e := NewEngine(nil)
	a := sectionWith("A",
		slotOn("Sunday", "08:00 AM", "09:20 AM"),
		slotOn("Tuesday", "08:00 AM", "09:20 AM"),
	)
	b := sectionWith("B",
		slotOn("Monday", "08:00 AM", "09:20 AM"),
		slotOn("Tuesday", "09:00 AM", "10:20 AM"),
	)
	c := sectionWith("C", slotOn("Wednesday", "08:00 AM", "09:20 AM"))

	assert.True(t, e.SectionsConflict(a, b, false))
	assert.True(t, e.SectionsConflict(b, a, false))
	assert.False(t, e.SectionsConflict(a, c, false))
}
