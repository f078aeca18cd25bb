package models

import "time"

// SelectionEntry is one course in a session's working set together with the
// currently chosen section. Pinned entries are excluded from the combinatorial
// search: the chosen section is fixed in every generated routine.
type SelectionEntry struct {
	Course       Course `json:"course"`
	SectionIndex int    `json:"selectedSectionIndex"`
	Pinned       bool   `json:"isPinned"`
}

// ChosenSection returns the currently selected section, or false when the
// index no longer points inside the course.
func (e SelectionEntry) ChosenSection() (Section, bool) {
	if e.SectionIndex < 0 || e.SectionIndex >= len(e.Course.Sections) {
		return Section{}, false
	}
	return e.Course.Sections[e.SectionIndex], true
}

// ManualEntry is a user-authored pseudo-course that bypasses the catalog. Its
// single synthesized section is always admissible to the seat and status
// filters.
type ManualEntry struct {
	Subject string   `json:"subject" validate:"required"`
	Days    []string `json:"days" validate:"required,min=1"`
	Start   string   `json:"start" validate:"required"`
	End     string   `json:"end" validate:"required"`
	Section string   `json:"section"`
	Room    string   `json:"room"`
}

// SessionState is everything a session owns: the ordered selection list and
// the session-scoped remap overrides. CatalogGeneration records which catalog
// the entries were built against; a reload resets the list.
type SessionState struct {
	Entries           []SelectionEntry `json:"entries"`
	CustomRemap       RemapTable       `json:"customRemap,omitempty"`
	CatalogGeneration int64            `json:"catalogGeneration"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}
