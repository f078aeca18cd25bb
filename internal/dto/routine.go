package dto

// RoutineFiltersPayload mirrors the generation filter controls. Times are
// clock strings in any accepted format; empty strings mean the widest
// window. MaxEnrolled is a pointer so an explicit 0 (only empty sections)
// is distinguishable from absent; at or above 100 the seat filter is off.
type RoutineFiltersPayload struct {
	MinStart    string   `json:"minStart"`
	MaxEnd      string   `json:"maxEnd"`
	MaxEnrolled *int     `json:"maxEnrolled" validate:"omitempty,min=0"`
	Statuses    []string `json:"statuses"`
	Days        []string `json:"days"`
	RemapActive bool     `json:"remapActive"`
}

// GenerateRoutineRequest starts a generation run over the session's
// current selection list.
type GenerateRoutineRequest struct {
	Filters RoutineFiltersPayload `json:"filters"`
	Ranked  bool                  `json:"ranked"`
}

// RoutineItemView is one course placement inside a generated routine.
type RoutineItemView struct {
	Title        string     `json:"title"`
	Department   string     `json:"department"`
	SectionLabel string     `json:"sectionLabel"`
	Status       string     `json:"status"`
	Enrolled     int        `json:"enrolled"`
	Capacity     int        `json:"capacity"`
	Slots        []SlotView `json:"slots"`
}

// RoutineView is a single generated routine with its summary line.
type RoutineView struct {
	Index      int               `json:"index"`
	Items      []RoutineItemView `json:"items"`
	GapMinutes int               `json:"gapMinutes"`
	GapLabel   string            `json:"gapLabel"`
	DaysOnSite int               `json:"daysOnCampus"`
	Credits    int               `json:"credits"`
}

// GenerateRoutineResponse returns the stored result set and its first
// routine. Browsing the rest goes through the result id.
type GenerateRoutineResponse struct {
	ResultID string       `json:"resultId"`
	Total    int          `json:"total"`
	Ranked   bool         `json:"ranked"`
	First    *RoutineView `json:"first,omitempty"`
}

// BrowseRoutineQuery fetches one routine out of a stored result set.
type BrowseRoutineQuery struct {
	Index int `form:"index" json:"index"`
}

// ExportRoutineQuery selects the export rendering.
type ExportRoutineQuery struct {
	Index  int    `form:"index" json:"index"`
	Format string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
}
