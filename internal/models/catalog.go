package models

import "time"

// Section status values as they appear in offered-course reports. The status
// field is advisory: filters decide whether closed sections are admissible,
// nothing in the engine enforces it.
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// ScheduleSlot is one weekly meeting of a section. Start and End keep the raw
// catalog strings ("09:40 AM"); minute arithmetic always goes through the
// timetable resolver so remapped timetables stay consistent.
type ScheduleSlot struct {
	Day      string `json:"day" db:"day"`
	Start    string `json:"start" db:"start_time"`
	End      string `json:"end" db:"end_time"`
	Room     string `json:"room" db:"room"`
	Type     string `json:"type" db:"class_type"`
	IsManual bool   `json:"isManual" db:"is_manual"`
}

// Section is one offered section of a course.
type Section struct {
	ID        string         `json:"id"`
	Label     string         `json:"section"`
	Status    string         `json:"status"`
	Capacity  int            `json:"capacity"`
	Enrolled  int            `json:"count"`
	Schedules []ScheduleSlot `json:"schedules"`
}

// Course groups the sections offered under one catalog entry.
type Course struct {
	Code       string    `json:"code"`
	Department string    `json:"dept"`
	BaseTitle  string    `json:"baseTitle"`
	Sections   []Section `json:"sections"`
}

// Key is the catalog identity of a course. Two rows with the same title, code
// and department are the same course regardless of section layout.
func (c Course) Key() string {
	return c.BaseTitle + "@@@" + c.Code + "@@@" + c.Department
}

// CatalogMeta records provenance of the loaded catalog.
type CatalogMeta struct {
	Semester string    `json:"semester" db:"semester"`
	SyncedAt time.Time `json:"synced_at" db:"synced_at"`
	Courses  int       `json:"courses" db:"-"`
}
