package timetable

import (
	"sort"
	"strings"
)

// maxRankedGapMinutes is the fixed ceiling applied after gap ranking: ranked
// results drop any routine that leaves more than 5h40m of total waiting time.
// Policy constant, not user-configurable.
const maxRankedGapMinutes = 340

// GapMinutes totals the idle time of a routine: for each day of the week,
// slots resolved to effective times and sorted by start, summing the positive
// gaps between consecutive meetings. Zero means every day is back-to-back or
// has at most one class.
func (e *Engine) GapMinutes(routine Routine, remapActive bool) int {
	total := 0
	for _, key := range dayKeys {
		var intervals []EffectiveTime
		for _, item := range routine {
			for _, slot := range item.Section.Schedules {
				if strings.HasPrefix(strings.ToUpper(slot.Day), key) {
					intervals = append(intervals, e.resolver.Resolve(slot, remapActive))
				}
			}
		}
		if len(intervals) < 2 {
			continue
		}
		sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })
		for i := 0; i < len(intervals)-1; i++ {
			if gap := intervals[i+1].Start - intervals[i].End; gap > 0 {
				total += gap
			}
		}
	}
	return total
}

// CountDistinctDays reports how many days of the week the routine puts the
// student on campus.
func (e *Engine) CountDistinctDays(routine Routine) int {
	days := make(map[string]struct{})
	for _, item := range routine {
		for _, slot := range item.Section.Schedules {
			if slot.Day != "" {
				days[NormalizeDay(slot.Day)] = struct{}{}
			}
		}
	}
	return len(days)
}

// Rank orders candidates most-compact first: ascending total gap, ties broken
// by fewest distinct days on campus, and drops any candidate above the fixed
// gap ceiling. The input slice is not modified; ties preserve generation
// order.
func (e *Engine) Rank(routines []Routine, remapActive bool) []Routine {
	type scored struct {
		routine Routine
		gap     int
		days    int
	}
	items := make([]scored, 0, len(routines))
	for _, r := range routines {
		items = append(items, scored{routine: r, gap: e.GapMinutes(r, remapActive), days: e.CountDistinctDays(r)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].gap != items[j].gap {
			return items[i].gap < items[j].gap
		}
		return items[i].days < items[j].days
	})
	ranked := make([]Routine, 0, len(items))
	for _, item := range items {
		if item.gap <= maxRankedGapMinutes {
			ranked = append(ranked, item.routine)
		}
	}
	return ranked
}

// Credits estimates the credit load of a routine: lab titles count 1 credit,
// everything else 3.
func Credits(routine Routine) int {
	total := 0
	for _, item := range routine {
		if strings.Contains(strings.ToLower(item.CourseTitle), "lab") {
			total++
		} else {
			total += 3
		}
	}
	return total
}
