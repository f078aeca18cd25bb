// Package catalog turns offered-course report rows into catalog courses.
// Reports come from registrar exports where the header row floats, course
// codes appear only on the first row of each course block and section rows
// repeat per class meeting.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/routinepro/routine-pro-api/internal/models"
	"github.com/routinepro/routine-pro-api/internal/timetable"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
)

var bracketSuffix = regexp.MustCompile(`\s*\[.*\]$`)

type columnMap struct {
	id       int
	code     int
	status   int
	capacity int
	count    int
	title    int
	section  int
	typ      int
	day      int
	start    int
	end      int
	room     int
	dept     int
}

func newColumnMap() columnMap {
	return columnMap{id: -1, code: -1, status: -1, capacity: -1, count: -1,
		title: -1, section: -1, typ: -1, day: -1, start: -1, end: -1, room: -1, dept: -1}
}

// ParseResult is the outcome of a row import.
type ParseResult struct {
	Courses     []models.Course
	SkippedRows int
}

// ParseRows locates the header row by sniffing for the CLASS ID or COURSE
// TITLE captions, then groups the data rows below it into courses keyed by
// title, code and department. Course codes carry forward across rows until
// replaced; rows without a class id or title are skipped, not fatal.
func ParseRows(rows [][]string) (*ParseResult, error) {
	headerIdx := -1
	cols := newColumnMap()

	for i, row := range rows {
		upper := make([]string, len(row))
		hit := false
		for j, cell := range row {
			upper[j] = strings.ToUpper(strings.TrimSpace(cell))
			if upper[j] == "CLASS ID" || upper[j] == "COURSE TITLE" {
				hit = true
			}
		}
		if !hit {
			continue
		}
		headerIdx = i
		for j, cell := range upper {
			switch {
			case strings.Contains(cell, "CLASS ID"):
				cols.id = j
			case strings.Contains(cell, "COURSE CODE"):
				cols.code = j
			case strings.Contains(cell, "STATUS"):
				cols.status = j
			case strings.Contains(cell, "CAPACITY"):
				cols.capacity = j
			case strings.Contains(cell, "COUNT"):
				cols.count = j
			case strings.Contains(cell, "COURSE TITLE"):
				cols.title = j
			case strings.Contains(cell, "SECTION"):
				cols.section = j
			case strings.Contains(cell, "TYPE"):
				cols.typ = j
			case strings.Contains(cell, "DAY"):
				cols.day = j
			case strings.Contains(cell, "START TIME"):
				cols.start = j
			case strings.Contains(cell, "END TIME"):
				cols.end = j
			case strings.Contains(cell, "ROOM"):
				cols.room = j
			case strings.Contains(cell, "DEPARTMENT"):
				cols.dept = j
			}
		}
		break
	}

	if headerIdx == -1 || cols.id == -1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "could not find a valid course report header structure")
	}

	type courseAccum struct {
		course   models.Course
		sections map[string]*models.Section
		order    []string
	}

	coursesByKey := make(map[string]*courseAccum)
	var keyOrder []string
	currentCode := ""
	skipped := 0

	for _, row := range rows[headerIdx+1:] {
		classID := cellAt(row, cols.id)
		if classID == "" || strings.EqualFold(classID, "nan") || strings.Contains(strings.ToUpper(classID), "CLASS ID") {
			skipped++
			continue
		}

		if rawCode := cellAt(row, cols.code); rawCode != "" && !strings.EqualFold(rawCode, "nan") {
			currentCode = rawCode
		}

		fullTitle := cellAt(row, cols.title)
		if fullTitle == "" {
			skipped++
			continue
		}

		baseTitle := strings.TrimSpace(bracketSuffix.ReplaceAllString(fullTitle, ""))
		dept := cellAt(row, cols.dept)
		key := fmt.Sprintf("%s@@@%s@@@%s", baseTitle, currentCode, dept)

		accum, ok := coursesByKey[key]
		if !ok {
			accum = &courseAccum{
				course: models.Course{
					Code:       currentCode,
					BaseTitle:  baseTitle,
					Department: dept,
				},
				sections: make(map[string]*models.Section),
			}
			coursesByKey[key] = accum
			keyOrder = append(keyOrder, key)
		}

		label := cellAt(row, cols.section)
		section, ok := accum.sections[label]
		if !ok {
			status := cellAt(row, cols.status)
			if status == "" {
				status = models.StatusOpen
			}
			section = &models.Section{
				ID:       classID,
				Label:    label,
				Status:   status,
				Capacity: lenientInt(cellAt(row, cols.capacity)),
				Enrolled: lenientInt(cellAt(row, cols.count)),
			}
			accum.sections[label] = section
			accum.order = append(accum.order, label)
		}

		section.Schedules = append(section.Schedules, models.ScheduleSlot{
			Day:   timetable.NormalizeDay(cellAt(row, cols.day)),
			Start: cellAt(row, cols.start),
			End:   cellAt(row, cols.end),
			Room:  cellAt(row, cols.room),
			Type:  cellAt(row, cols.typ),
		})
	}

	result := &ParseResult{SkippedRows: skipped}
	for _, key := range keyOrder {
		accum := coursesByKey[key]
		sort.Strings(accum.order)
		for _, label := range accum.order {
			accum.course.Sections = append(accum.course.Sections, *accum.sections[label])
		}
		result.Courses = append(result.Courses, accum.course)
	}
	return result, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func lenientInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
