package service

import (
	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
	"github.com/routinepro/routine-pro-api/internal/timetable"
	"github.com/routinepro/routine-pro-api/pkg/export"
)

func buildSlotViews(engine *timetable.Engine, slots []models.ScheduleSlot, remapActive bool) []dto.SlotView {
	views := make([]dto.SlotView, 0, len(slots))
	for _, slot := range slots {
		view := dto.SlotView{
			Day:   timetable.NormalizeDay(slot.Day),
			Start: slot.Start,
			End:   slot.End,
			Room:  slot.Room,
			Type:  slot.Type,
		}
		if remapActive {
			eff := engine.Resolve(slot, true)
			if eff.StartLabel != slot.Start || eff.EndLabel != slot.End {
				view.EffectiveStart = eff.StartLabel
				view.EffectiveEnd = eff.EndLabel
			}
		}
		views = append(views, view)
	}
	return views
}

func buildRoutineView(engine *timetable.Engine, routine timetable.Routine, index int, remapActive bool) dto.RoutineView {
	items := make([]dto.RoutineItemView, 0, len(routine))
	for _, item := range routine {
		items = append(items, dto.RoutineItemView{
			Title:        item.CourseTitle,
			Department:   item.Department,
			SectionLabel: item.Section.Label,
			Status:       item.Section.Status,
			Enrolled:     item.Section.Enrolled,
			Capacity:     item.Section.Capacity,
			Slots:        buildSlotViews(engine, item.Section.Schedules, remapActive),
		})
	}

	gap := engine.GapMinutes(routine, remapActive)
	return dto.RoutineView{
		Index:      index,
		Items:      items,
		GapMinutes: gap,
		GapLabel:   timetable.FormatMinutes(gap) + " Waiting Time",
		DaysOnSite: engine.CountDistinctDays(routine),
		Credits:    timetable.Credits(routine),
	}
}

// BuildSelectionResponse maps a session's entries into the wire form.
func BuildSelectionResponse(engine *timetable.Engine, state *models.SessionState, remapActive bool) dto.SelectionResponse {
	entries := make([]dto.SelectionEntryView, 0, len(state.Entries))
	for i, entry := range state.Entries {
		view := dto.SelectionEntryView{
			Index:        i,
			CourseKey:    entry.Course.Key(),
			Title:        entry.Course.BaseTitle,
			Code:         entry.Course.Code,
			Department:   entry.Course.Department,
			SectionCount: len(entry.Course.Sections),
			SectionIndex: entry.SectionIndex,
			Pinned:       entry.Pinned,
			IsManual:     IsManualEntry(entry),
		}
		if section, ok := entry.ChosenSection(); ok {
			view.Slots = buildSlotViews(engine, section.Schedules, remapActive)
		}
		entries = append(entries, view)
	}
	return dto.SelectionResponse{Entries: entries}
}

// BuildCourseViews maps catalog courses into the wire form.
func BuildCourseViews(engine *timetable.Engine, courses []models.Course, remapActive bool) []dto.CourseView {
	views := make([]dto.CourseView, 0, len(courses))
	for _, course := range courses {
		sections := make([]dto.SectionView, 0, len(course.Sections))
		for _, section := range course.Sections {
			sections = append(sections, dto.SectionView{
				Label:    section.Label,
				Status:   section.Status,
				Capacity: section.Capacity,
				Enrolled: section.Enrolled,
				Slots:    buildSlotViews(engine, section.Schedules, remapActive),
			})
		}
		views = append(views, dto.CourseView{
			Key:        course.Key(),
			Code:       course.Code,
			Title:      course.BaseTitle,
			Department: course.Department,
			Sections:   sections,
		})
	}
	return views
}

// routineDataset flattens a routine into one row per class meeting, ordered
// as the routine lists them.
func routineDataset(engine *timetable.Engine, routine timetable.Routine, remapActive bool) export.Dataset {
	headers := []string{"Course", "Section", "Day", "Start", "End", "Room", "Type"}
	rows := make([]map[string]string, 0, len(routine))
	for _, item := range routine {
		for _, slot := range item.Section.Schedules {
			eff := engine.Resolve(slot, remapActive)
			rows = append(rows, map[string]string{
				"Course":  item.CourseTitle,
				"Section": item.Section.Label,
				"Day":     timetable.NormalizeDay(slot.Day),
				"Start":   eff.StartLabel,
				"End":     eff.EndLabel,
				"Room":    slot.Room,
				"Type":    slot.Type,
			})
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
