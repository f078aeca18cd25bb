package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routinepro/routine-pro-api/internal/models"
)

func permissiveFilters() Filters {
	return Filters{
		MinStart:        0,
		MaxEnd:          1439,
		MaxEnrolled:     100,
		AllowedStatuses: []string{models.StatusOpen, models.StatusClosed},
		AllowedDays:     []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"},
	}
}

func courseOf(title, code string, sections ...models.Section) models.Course {
	return models.Course{BaseTitle: title, Code: code, Department: "CSE", Sections: sections}
}

func entryOf(course models.Course) models.SelectionEntry {
	return models.SelectionEntry{Course: course}
}

func TestGenerateAllCombinationsConflict(t *testing.T) {
	e := NewEngine(nil)
	cse110 := courseOf("CSE110", "12345",
		sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM")),
		sectionWith("02", slotOn("Monday", "9:00 AM", "10:00 AM")),
	)
	cse220 := courseOf("CSE220", "12346",
		sectionWith("01", slotOn("Monday", "9:30 AM", "10:30 AM")),
	)

	routines := e.Generate([]models.SelectionEntry{entryOf(cse110), entryOf(cse220)}, permissiveFilters())
	assert.Empty(t, routines, "every combination conflicts")
}

func TestGenerateSingleCandidateZeroGap(t *testing.T) {
	e := NewEngine(nil)
	cse110 := courseOf("CSE110", "12345", sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM")))
	mat101 := courseOf("MAT101", "20111", sectionWith("01", slotOn("Tuesday", "9:00 AM", "10:00 AM")))

	routines := e.Generate([]models.SelectionEntry{entryOf(cse110), entryOf(mat101)}, permissiveFilters())
	require.Len(t, routines, 1)
	require.Len(t, routines[0], 2)
	assert.Equal(t, "CSE110", routines[0][0].CourseTitle)
	assert.Equal(t, "MAT101", routines[0][1].CourseTitle)
	assert.Equal(t, 0, e.GapMinutes(routines[0], false))
}

func TestGenerateSeatFilterSentinel(t *testing.T) {
	e := NewEngine(nil)
	full := sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM"))
	full.Enrolled = 500
	course := courseOf("CSE110", "12345", full)

	filters := permissiveFilters()
	filters.MaxEnrolled = 100
	routines := e.Generate([]models.SelectionEntry{entryOf(course)}, filters)
	assert.Len(t, routines, 1, "limit of 100 means no seat limit")

	filters.MaxEnrolled = 99
	routines = e.Generate([]models.SelectionEntry{entryOf(course)}, filters)
	assert.Empty(t, routines)
}

func TestGenerateStatusFilter(t *testing.T) {
	e := NewEngine(nil)
	closed := sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM"))
	closed.Status = " Closed "
	course := courseOf("CSE110", "12345", closed)

	filters := permissiveFilters()
	filters.AllowedStatuses = []string{"open"}
	assert.Empty(t, e.Generate([]models.SelectionEntry{entryOf(course)}, filters))

	filters.AllowedStatuses = []string{"open", "closed"}
	assert.Len(t, e.Generate([]models.SelectionEntry{entryOf(course)}, filters), 1)
}

func TestGenerateTimeWindowFilter(t *testing.T) {
	e := NewEngine(nil)
	course := courseOf("CSE110", "12345",
		sectionWith("01", slotOn("Monday", "8:00 AM", "9:20 AM")),
		sectionWith("02", slotOn("Monday", "11:20 AM", "12:40 PM")),
	)

	filters := permissiveFilters()
	filters.MinStart = ParseClock("09:00 AM")
	routines := e.Generate([]models.SelectionEntry{entryOf(course)}, filters)
	require.Len(t, routines, 1)
	assert.Equal(t, "02", routines[0][0].Section.Label)
}

func TestGenerateDayFilter(t *testing.T) {
	e := NewEngine(nil)
	course := courseOf("CSE110", "12345",
		sectionWith("01", slotOn("Friday", "9:00 AM", "10:00 AM")),
		sectionWith("02", slotOn("Monday", "9:00 AM", "10:00 AM"), slotOn("Wednesday", "9:00 AM", "10:00 AM")),
	)

	filters := permissiveFilters()
	filters.AllowedDays = []string{"MON", "WED"}
	routines := e.Generate([]models.SelectionEntry{entryOf(course)}, filters)
	require.Len(t, routines, 1)
	assert.Equal(t, "02", routines[0][0].Section.Label)
}

func TestGenerateRemapWidensWindow(t *testing.T) {
	// Under the compressed timetable an early morning lecture moves to 09:00
	// and passes a min-start filter its nominal time would fail.
	e := NewEngine(nil)
	course := courseOf("CSE110", "12345", sectionWith("01", slotOn("Monday", "08:00 AM", "09:30 AM")))

	filters := permissiveFilters()
	filters.MinStart = ParseClock("09:00 AM")
	assert.Empty(t, e.Generate([]models.SelectionEntry{entryOf(course)}, filters))

	filters.RemapActive = true
	assert.Len(t, e.Generate([]models.SelectionEntry{entryOf(course)}, filters), 1)
}

func TestGeneratePinnedSectionFixed(t *testing.T) {
	e := NewEngine(nil)
	course := courseOf("CSE110", "12345",
		sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM")),
		sectionWith("02", slotOn("Tuesday", "9:00 AM", "10:00 AM")),
	)
	entry := models.SelectionEntry{Course: course, SectionIndex: 1, Pinned: true}

	routines := e.Generate([]models.SelectionEntry{entry}, permissiveFilters())
	require.Len(t, routines, 1)
	assert.Equal(t, "02", routines[0][0].Section.Label)
}

func TestGeneratePinnedOutOfRangeYieldsNothing(t *testing.T) {
	e := NewEngine(nil)
	course := courseOf("CSE110", "12345", sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM")))
	entry := models.SelectionEntry{Course: course, SectionIndex: 5, Pinned: true}
	assert.Empty(t, e.Generate([]models.SelectionEntry{entry}, permissiveFilters()))
}

func TestGenerateDeterministicOrder(t *testing.T) {
	e := NewEngine(nil)
	cse110 := courseOf("CSE110", "12345",
		sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM")),
		sectionWith("02", slotOn("Tuesday", "9:00 AM", "10:00 AM")),
	)
	mat101 := courseOf("MAT101", "20111",
		sectionWith("01", slotOn("Wednesday", "9:00 AM", "10:00 AM")),
		sectionWith("02", slotOn("Thursday", "9:00 AM", "10:00 AM")),
	)
	entries := []models.SelectionEntry{entryOf(cse110), entryOf(mat101)}

	first := e.Generate(entries, permissiveFilters())
	second := e.Generate(entries, permissiveFilters())
	require.Len(t, first, 4)
	assert.Equal(t, first, second, "same inputs must enumerate identically")

	// Course index ascending, section order ascending.
	assert.Equal(t, "01", first[0][0].Section.Label)
	assert.Equal(t, "01", first[0][1].Section.Label)
	assert.Equal(t, "02", first[1][1].Section.Label)
	assert.Equal(t, "02", first[2][0].Section.Label)
}

func TestGenerateOutputIsConflictFreeAndFiltered(t *testing.T) {
	e := NewEngine(nil)
	cse110 := courseOf("CSE110", "12345",
		sectionWith("01", slotOn("Sunday", "8:00 AM", "9:20 AM"), slotOn("Tuesday", "8:00 AM", "9:20 AM")),
		sectionWith("02", slotOn("Sunday", "9:40 AM", "11:00 AM"), slotOn("Tuesday", "9:40 AM", "11:00 AM")),
		sectionWith("03", slotOn("Monday", "9:40 AM", "11:00 AM"), slotOn("Wednesday", "9:40 AM", "11:00 AM")),
	)
	phy111 := courseOf("PHY111", "31002",
		sectionWith("01", slotOn("Sunday", "9:40 AM", "11:00 AM")),
		sectionWith("02", slotOn("Monday", "11:20 AM", "12:40 PM")),
	)
	entries := []models.SelectionEntry{entryOf(cse110), entryOf(phy111)}
	filters := permissiveFilters()
	filters.MinStart = ParseClock("8:00 AM")
	filters.MaxEnd = ParseClock("5:00 PM")

	routines := e.Generate(entries, filters)
	require.NotEmpty(t, routines)
	for _, routine := range routines {
		require.Len(t, routine, len(entries))
		for i := 0; i < len(routine); i++ {
			for j := i + 1; j < len(routine); j++ {
				assert.False(t, e.SectionsConflict(routine[i].Section, routine[j].Section, false))
			}
			for _, slot := range routine[i].Section.Schedules {
				eff := e.Resolve(slot, false)
				assert.GreaterOrEqual(t, eff.Start, filters.MinStart)
				assert.LessOrEqual(t, eff.End, filters.MaxEnd)
			}
		}
	}
}

func TestGenerateSnapshotsAreIndependent(t *testing.T) {
	e := NewEngine(nil)
	cse110 := courseOf("CSE110", "12345",
		sectionWith("01", slotOn("Monday", "9:00 AM", "10:00 AM")),
		sectionWith("02", slotOn("Tuesday", "9:00 AM", "10:00 AM")),
	)
	routines := e.Generate([]models.SelectionEntry{entryOf(cse110)}, permissiveFilters())
	require.Len(t, routines, 2)
	routines[0][0].CourseTitle = "mutated"
	assert.Equal(t, "CSE110", routines[1][0].CourseTitle)
}
