package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/routinepro/routine-pro-api/internal/models"
)

func remapSlot(start, end string) models.ScheduleSlot {
	return models.ScheduleSlot{Day: "Monday", Start: start, End: end}
}

func TestResolvePassthroughWhenInactive(t *testing.T) {
	r := NewResolver(nil, nil)
	eff := r.Resolve(remapSlot("08:00 AM", "09:30 AM"), false)
	assert.Equal(t, 480, eff.Start)
	assert.Equal(t, 570, eff.End)
	assert.Equal(t, "08:00 AM", eff.StartLabel)
	assert.Equal(t, "09:30 AM", eff.EndLabel)
}

func TestResolveManualSlotsNeverRemap(t *testing.T) {
	r := NewResolver(nil, nil)
	slot := remapSlot("08:00 AM", "09:30 AM")
	slot.IsManual = true
	eff := r.Resolve(slot, true)
	assert.Equal(t, 480, eff.Start)
	assert.Equal(t, 570, eff.End)
}

func TestResolveBuiltinTable(t *testing.T) {
	r := NewResolver(nil, nil)
	eff := r.Resolve(remapSlot("08:00 AM", "09:30 AM"), true)
	assert.Equal(t, "09:00 AM", eff.StartLabel)
	assert.Equal(t, "10:00 AM", eff.EndLabel)
	assert.Equal(t, 540, eff.Start)
	assert.Equal(t, 600, eff.End)
}

func TestResolveUnpaddedLabelsHitBuiltinTable(t *testing.T) {
	r := NewResolver(nil, nil)
	eff := r.Resolve(remapSlot("8:00 AM", "9:30 AM"), true)
	assert.Equal(t, "09:00 AM", eff.StartLabel)
	assert.Equal(t, "10:00 AM", eff.EndLabel)
}

func TestResolveUnknownRangeDegradesToIdentity(t *testing.T) {
	r := NewResolver(nil, nil)
	eff := r.Resolve(remapSlot("07:15 AM", "08:45 AM"), true)
	assert.Equal(t, 435, eff.Start)
	assert.Equal(t, 525, eff.End)
	assert.Equal(t, "07:15 AM", eff.StartLabel)
}

func TestResolveCustomBeatsGlobalBeatsBuiltin(t *testing.T) {
	custom := models.RemapTable{"08:00 AM - 09:30 AM": {"10:00 AM", "11:00 AM"}}
	global := models.RemapTable{"08:00 AM - 09:30 AM": {"09:30 AM", "10:30 AM"}}

	eff := NewResolver(custom, global).Resolve(remapSlot("08:00 AM", "09:30 AM"), true)
	assert.Equal(t, "10:00 AM", eff.StartLabel)

	eff = NewResolver(nil, global).Resolve(remapSlot("08:00 AM", "09:30 AM"), true)
	assert.Equal(t, "09:30 AM", eff.StartLabel)
}

func TestResolveIdentityCustomEntryDoesNotMaskBuiltin(t *testing.T) {
	// A custom entry mapping a range onto itself is a no-op and must not
	// shadow the built-in compression rule.
	custom := models.RemapTable{"08:00 AM - 09:30 AM": {"08:00 AM", "09:30 AM"}}
	eff := NewResolver(custom, nil).Resolve(remapSlot("08:00 AM", "09:30 AM"), true)
	assert.Equal(t, "09:00 AM", eff.StartLabel)
	assert.Equal(t, "10:00 AM", eff.EndLabel)
}
