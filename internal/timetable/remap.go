package timetable

import (
	"strings"

	"github.com/routinepro/routine-pro-api/internal/models"
)

// EffectiveTime is the interval a slot actually occupies once the active
// timetable is applied, with both minute values for arithmetic and the label
// strings the presentation layer renders.
type EffectiveTime struct {
	Start      int    `json:"startMinutes"`
	End        int    `json:"endMinutes"`
	StartLabel string `json:"start"`
	EndLabel   string `json:"end"`
}

// Resolver translates nominal slot times into effective times under the
// compressed-timetable mode. Lookup priority: session override table (only
// when the entry actually shifts the slot), shared global table, built-in
// table, then identity fallback. A missing entry is not an error; the slot
// simply keeps its nominal times.
type Resolver struct {
	custom models.RemapTable
	global models.RemapTable
}

// NewResolver builds a resolver over the given override tables. Either table
// may be nil.
func NewResolver(custom, global models.RemapTable) *Resolver {
	return &Resolver{custom: custom, global: global}
}

// Resolve returns the effective interval for a slot. When the remap mode is
// inactive, or the slot is a manual entry (manual entries are authored in
// real wall-clock time already), the nominal times pass through untouched.
func (r *Resolver) Resolve(slot models.ScheduleSlot, remapActive bool) EffectiveTime {
	if !remapActive || slot.IsManual {
		return passthrough(slot)
	}

	key := rangeKey(strings.ToUpper(strings.TrimSpace(slot.Start)), strings.ToUpper(strings.TrimSpace(slot.End)))
	if mapped, ok := r.lookup(key); ok {
		return EffectiveTime{
			Start:      ParseClock(mapped[0]),
			End:        ParseClock(mapped[1]),
			StartLabel: mapped[0],
			EndLabel:   mapped[1],
		}
	}
	return passthrough(slot)
}

func (r *Resolver) lookup(key string) ([2]string, bool) {
	if mapped, ok := r.custom[key]; ok {
		// An override identical to its key is a no-op entry; skip it so it
		// cannot mask the shared or built-in tables.
		if key != rangeKey(mapped[0], mapped[1]) {
			return mapped, true
		}
	}
	if mapped, ok := r.global[key]; ok {
		return mapped, true
	}
	mapped, ok := builtinRemap[key]
	return mapped, ok
}

func passthrough(slot models.ScheduleSlot) EffectiveTime {
	return EffectiveTime{
		Start:      ParseClock(slot.Start),
		End:        ParseClock(slot.End),
		StartLabel: slot.Start,
		EndLabel:   slot.End,
	}
}

// builtinRemap covers the common period-compression rules for lecture and lab
// blocks. Keys are nominal ranges in canonical form.
var builtinRemap = models.RemapTable{
	// 1h30m lectures -> 1h
	"08:00 AM - 09:30 AM": {"09:00 AM", "10:00 AM"},
	"09:40 AM - 11:10 AM": {"10:00 AM", "11:00 AM"},
	"11:20 AM - 12:50 PM": {"11:00 AM", "12:00 PM"},
	"01:00 PM - 02:30 PM": {"12:00 PM", "01:00 PM"},
	"02:40 PM - 04:10 PM": {"01:20 PM", "02:20 PM"},
	"04:20 PM - 05:50 PM": {"02:20 PM", "03:20 PM"},
	// 1h20m lectures -> 1h
	"08:00 AM - 09:20 AM": {"09:00 AM", "10:00 AM"},
	"09:40 AM - 11:00 AM": {"10:00 AM", "11:00 AM"},
	"11:20 AM - 12:40 PM": {"11:00 AM", "12:00 PM"},
	"01:00 PM - 02:20 PM": {"12:00 PM", "01:00 PM"},
	"02:40 PM - 04:00 PM": {"01:00 PM", "02:00 PM"},
	// 2h labs -> 1h20m
	"08:00 AM - 10:00 AM": {"09:00 AM", "10:20 AM"},
	"10:20 AM - 12:20 PM": {"10:30 AM", "11:50 AM"},
	"12:40 PM - 02:40 PM": {"12:00 PM", "01:20 PM"},
	"03:00 PM - 05:00 PM": {"01:30 PM", "02:50 PM"},
	// 1h periods -> 40m
	"08:00 AM - 09:00 AM": {"09:00 AM", "09:40 AM"},
	"09:10 AM - 10:10 AM": {"09:40 AM", "10:20 AM"},
	"10:20 AM - 11:20 AM": {"10:20 AM", "11:00 AM"},
	"11:30 AM - 12:30 PM": {"11:10 AM", "11:50 AM"},
	"12:40 PM - 01:40 PM": {"12:00 PM", "12:40 PM"},
	"01:50 PM - 02:50 PM": {"12:40 PM", "01:20 PM"},
	// 2h20m labs -> 1h30m
	"08:00 AM - 10:20 AM": {"09:00 AM", "10:30 AM"},
	"10:20 AM - 12:40 PM": {"10:30 AM", "12:00 PM"},
	"12:40 PM - 03:00 PM": {"12:00 PM", "01:30 PM"},
	"03:00 PM - 05:20 PM": {"01:30 PM", "03:00 PM"},
	// 3h labs -> 2h
	"08:00 AM - 11:00 AM": {"09:00 AM", "11:00 AM"},
	"11:00 AM - 02:00 PM": {"11:00 AM", "01:00 PM"},
	"02:00 PM - 05:00 PM": {"01:00 PM", "03:00 PM"},
	"08:30 AM - 11:30 AM": {"09:00 AM", "11:00 AM"},
	"08:30 AM - 01:00 PM": {"09:00 AM", "12:20 PM"},
	"08:30 AM - 02:00 PM": {"09:00 AM", "01:00 PM"},
	// 3h and 1.5h postgraduate/evening shifts
	"10:00 AM - 01:00 PM": {"11:00 AM", "01:00 PM"},
	"01:00 PM - 04:00 PM": {"12:00 PM", "02:00 PM"},
	"04:00 PM - 07:00 PM": {"02:00 PM", "04:00 PM"},
	"01:30 PM - 03:00 PM": {"01:20 PM", "02:20 PM"},
	"06:30 PM - 09:30 PM": {"03:30 PM", "05:30 PM"},
	"06:30 PM - 08:00 PM": {"03:30 PM", "04:30 PM"},
	"08:00 PM - 09:30 PM": {"04:30 PM", "05:30 PM"},
}
