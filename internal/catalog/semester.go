package catalog

import (
	"regexp"
	"strings"
)

var yearToken = regexp.MustCompile(`\b20\d{2}\b`)

var seasonTokens = []string{"SPRING", "FALL", "SUMMER", "WINTER"}

const semesterScanRows = 50

// DetectSemester scans the leading rows of a report for a cell that looks
// like a semester banner ("Spring 2026" and the like) and returns it
// verbatim. Empty string when nothing matches.
func DetectSemester(rows [][]string) string {
	limit := len(rows)
	if limit > semesterScanRows {
		limit = semesterScanRows
	}
	for _, row := range rows[:limit] {
		for _, cell := range row {
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			upper := strings.ToUpper(trimmed)
			for _, season := range seasonTokens {
				if strings.Contains(upper, season) {
					return trimmed
				}
			}
			if yearToken.MatchString(upper) {
				return trimmed
			}
		}
	}
	return ""
}
