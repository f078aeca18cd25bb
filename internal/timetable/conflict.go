package timetable

import "github.com/routinepro/routine-pro-api/internal/models"

// SlotsConflict reports whether two weekly meetings collide: same normalized
// day and overlapping effective intervals (half-open check).
func (e *Engine) SlotsConflict(a, b models.ScheduleSlot, remapActive bool) bool {
	if NormalizeDay(a.Day) != NormalizeDay(b.Day) {
		return false
	}
	ta := e.resolver.Resolve(a, remapActive)
	tb := e.resolver.Resolve(b, remapActive)
	return ta.Start < tb.End && ta.End > tb.Start
}

// SectionsConflict reports whether any pair of meetings between the two
// sections collides. This is the sole conflict primitive: the generator's
// pruning step and the selected-set conflict report both go through it.
func (e *Engine) SectionsConflict(a, b models.Section, remapActive bool) bool {
	for _, slotA := range a.Schedules {
		for _, slotB := range b.Schedules {
			if e.SlotsConflict(slotA, slotB, remapActive) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) conflictsWithAny(candidate models.Section, committed Routine, remapActive bool) bool {
	for _, item := range committed {
		if e.SectionsConflict(candidate, item.Section, remapActive) {
			return true
		}
	}
	return false
}
