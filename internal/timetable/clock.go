// Package timetable is the routine generation engine: time parsing, effective
// time resolution, conflict detection, combinatorial search and gap scoring.
// It is a pure computation library; everything here is total and non-throwing
// so that generation never fails on dirty catalog data.
package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

var dayNames = map[string]string{
	"SUN": "Sunday",
	"MON": "Monday",
	"TUE": "Tuesday",
	"WED": "Wednesday",
	"THU": "Thursday",
	"FRI": "Friday",
	"SAT": "Saturday",
}

// dayKeys enumerates the canonical week in catalog order (week starts Sunday).
var dayKeys = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// NormalizeDay maps any string starting with a recognized 3-letter day prefix
// (case-insensitive) to the full canonical day name. Unrecognized input passes
// through unchanged rather than being dropped; catalogs occasionally carry
// unusual day labels and those sections must survive normalization.
func NormalizeDay(raw string) string {
	if raw == "" {
		return ""
	}
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for prefix, name := range dayNames {
		if strings.HasPrefix(upper, prefix) {
			return name
		}
	}
	return raw
}

// DayPrefix returns the lowercase 3-letter prefix used by the day filter.
func DayPrefix(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 3 {
		trimmed = trimmed[:3]
	}
	return strings.ToLower(trimmed)
}

// ParseClock converts "H:MM AM/PM" (colon or period separator) or bare 24h
// "HH:MM" to minutes since midnight. Hour 12 maps to 0 before the PM offset.
// Malformed input parses to 0 (start of day) instead of failing; filter and
// generation correctness relies on this function being total.
func ParseClock(raw string) int {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) == 0 {
		return 0
	}
	hour, minute := splitClock(parts[0])
	if len(parts) >= 2 {
		if hour == 12 {
			hour = 0
		}
		if strings.Contains(strings.ToUpper(parts[1]), "PM") {
			hour += 12
		}
	}
	return hour*60 + minute
}

func splitClock(raw string) (int, int) {
	sep := ":"
	if !strings.Contains(raw, ":") {
		sep = "."
	}
	fields := strings.SplitN(raw, sep, 2)
	hour, _ := strconv.Atoi(fields[0])
	minute := 0
	if len(fields) == 2 {
		minute, _ = strconv.Atoi(fields[1])
	}
	return hour, minute
}

// CanonicalClock zero-pads a time label to the "HH:MM AM" form used as remap
// table keys, preserving the original meridiem token.
func CanonicalClock(raw string) string {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) == 0 {
		return ""
	}
	sep := ":"
	if !strings.Contains(parts[0], ":") {
		sep = "."
	}
	fields := strings.SplitN(parts[0], sep, 2)
	hour := fields[0]
	minute := "00"
	if len(fields) == 2 {
		minute = fields[1]
	}
	if len(hour) < 2 {
		hour = "0" + hour
	}
	if len(minute) < 2 {
		minute = "0" + minute
	}
	clock := hour + ":" + minute
	if len(parts) >= 2 {
		return clock + " " + strings.ToUpper(parts[1])
	}
	return clock
}

// rangeKey builds the canonical "HH:MM AM - HH:MM PM" lookup key for a
// nominal start/end pair.
func rangeKey(start, end string) string {
	return CanonicalClock(start) + " - " + CanonicalClock(end)
}

// FormatMinutes renders a minute total as a compact display string such as
// "1h 20m". Zero renders as "0m".
func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	hours := total / 60
	minutes := total % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
