package dto

// AddCourseRequest adds a catalog course to the session's selection list.
// The key is the catalog identity key (title, code and department joined),
// as returned by the course listing.
type AddCourseRequest struct {
	CourseKey string `json:"courseKey" validate:"required"`
}

// ReselectSectionRequest pins a different section index for an entry.
type ReselectSectionRequest struct {
	SectionIndex int `json:"sectionIndex" validate:"min=0"`
}

// ManualSlotPayload describes one meeting of a hand-entered course.
type ManualSlotPayload struct {
	Day   string `json:"day" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
	Room  string `json:"room"`
}

// ManualCourseRequest creates or replaces a hand-entered course. Manual
// courses always get a single open section and their times are never
// remapped.
type ManualCourseRequest struct {
	Title string              `json:"title" validate:"required,max=160"`
	Slots []ManualSlotPayload `json:"slots" validate:"required,min=1,dive"`
}

// SelectionEntryView is the outbound form of one selection-list entry.
type SelectionEntryView struct {
	Index        int        `json:"index"`
	CourseKey    string     `json:"courseKey"`
	Title        string     `json:"title"`
	Code         string     `json:"code"`
	Department   string     `json:"department"`
	SectionCount int        `json:"sectionCount"`
	SectionIndex int        `json:"sectionIndex"`
	Pinned       bool       `json:"pinned"`
	IsManual     bool       `json:"isManual"`
	Slots        []SlotView `json:"slots"`
}

// SelectionResponse returns the full selection list.
type SelectionResponse struct {
	Entries []SelectionEntryView `json:"entries"`
}

// ConflictPair reports a clash between two currently chosen sections.
type ConflictPair struct {
	FirstIndex   int    `json:"firstIndex"`
	FirstTitle   string `json:"firstTitle"`
	SecondIndex  int    `json:"secondIndex"`
	SecondTitle  string `json:"secondTitle"`
	Day          string `json:"day"`
	FirstWindow  string `json:"firstWindow"`
	SecondWindow string `json:"secondWindow"`
}

// ConflictReportResponse lists pairwise clashes among chosen sections.
type ConflictReportResponse struct {
	RemapActive bool           `json:"remapActive"`
	Conflicts   []ConflictPair `json:"conflicts"`
}
