package timetable

import (
	"strings"

	"github.com/routinepro/routine-pro-api/internal/models"
)

// noSeatLimitThreshold marks the top of the seat-filter range. A limit at or
// above it means "no seat limit" rather than a literal cap; the UI exposes the
// filter as a 0-100 slider and 100 is its unbounded position.
const noSeatLimitThreshold = 100

// Filters are the per-request generation constraints. The engine holds no
// memory of past filters; a fresh value is supplied on every call.
type Filters struct {
	MinStart        int      `json:"minStartMinutes"`
	MaxEnd          int      `json:"maxEndMinutes"`
	MaxEnrolled     int      `json:"maxEnrolledCount"`
	AllowedStatuses []string `json:"allowedStatuses"`
	AllowedDays     []string `json:"allowedDays"`
	RemapActive     bool     `json:"remapActive"`
}

// RoutineItem pairs a course with the section assigned to it in a candidate.
type RoutineItem struct {
	CourseTitle string         `json:"courseTitle"`
	Department  string         `json:"dept"`
	Section     models.Section `json:"section"`
}

// Routine is one complete conflict-free assignment, one item per selected
// course. Never mutated after the generator emits it.
type Routine []RoutineItem

// Engine is the pure routine computation core. It owns only the effective
// time resolver; every operation takes its full inputs and returns full
// outputs with no hidden call state.
type Engine struct {
	resolver *Resolver
}

// NewEngine builds an engine over the given resolver. A nil resolver degrades
// to the built-in remap table only.
func NewEngine(resolver *Resolver) *Engine {
	if resolver == nil {
		resolver = NewResolver(nil, nil)
	}
	return &Engine{resolver: resolver}
}

// Resolve exposes effective-time resolution for rendering nominal vs. actual
// times.
func (e *Engine) Resolve(slot models.ScheduleSlot, remapActive bool) EffectiveTime {
	return e.resolver.Resolve(slot, remapActive)
}

// Generate enumerates every valid full assignment of one section per selected
// course via depth-first backtracking. Pinned entries contribute exactly their
// chosen section. Candidates appear in deterministic order: course index
// ascending, section order as listed on the course. An empty result is the
// "no solution" signal, not an error.
func (e *Engine) Generate(entries []models.SelectionEntry, f Filters) []Routine {
	statuses := make(map[string]struct{}, len(f.AllowedStatuses))
	for _, s := range f.AllowedStatuses {
		statuses[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	days := make(map[string]struct{}, len(f.AllowedDays))
	for _, d := range f.AllowedDays {
		days[DayPrefix(d)] = struct{}{}
	}

	var results []Routine
	current := make(Routine, 0, len(entries))

	var walk func(idx int)
	walk = func(idx int) {
		if idx == len(entries) {
			// Snapshot copy: the shared backtracking slice must never leak
			// into the result list.
			results = append(results, append(Routine(nil), current...))
			return
		}
		entry := entries[idx]
		for _, section := range e.candidateSections(entry) {
			if !e.admits(section, f, statuses, days) {
				continue
			}
			if e.conflictsWithAny(section, current, f.RemapActive) {
				continue
			}
			current = append(current, RoutineItem{
				CourseTitle: entry.Course.BaseTitle,
				Department:  entry.Course.Department,
				Section:     section,
			})
			walk(idx + 1)
			current = current[:len(current)-1]
		}
	}
	walk(0)
	return results
}

func (e *Engine) candidateSections(entry models.SelectionEntry) []models.Section {
	if !entry.Pinned {
		return entry.Course.Sections
	}
	if chosen, ok := entry.ChosenSection(); ok {
		return []models.Section{chosen}
	}
	return nil
}

// admits applies the cheap filters in short-circuit order: seats, status,
// then per-slot time window and day membership. Any failing slot rejects the
// whole section.
func (e *Engine) admits(section models.Section, f Filters, statuses, days map[string]struct{}) bool {
	if section.Enrolled > f.MaxEnrolled && f.MaxEnrolled < noSeatLimitThreshold {
		return false
	}
	if _, ok := statuses[strings.ToLower(strings.TrimSpace(section.Status))]; !ok {
		return false
	}
	for _, slot := range section.Schedules {
		eff := e.resolver.Resolve(slot, f.RemapActive)
		if eff.Start < f.MinStart || eff.End > f.MaxEnd {
			return false
		}
		if _, ok := days[DayPrefix(slot.Day)]; !ok {
			return false
		}
	}
	return true
}
