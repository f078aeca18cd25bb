package dto

import "time"

// CatalogImportRequest carries the raw tabular rows of an offered-courses
// sheet. Rows are passed as string cells exactly as extracted client-side;
// the header row is located by sniffing, not assumed to be first.
type CatalogImportRequest struct {
	Rows     [][]string `json:"rows" validate:"required,min=1"`
	Semester string     `json:"semester" validate:"omitempty,max=64"`
}

// CatalogImportResponse summarises a completed catalog replacement.
type CatalogImportResponse struct {
	Semester     string    `json:"semester"`
	CourseCount  int       `json:"courseCount"`
	SectionCount int       `json:"sectionCount"`
	SkippedRows  int       `json:"skippedRows"`
	SyncedAt     time.Time `json:"syncedAt"`
}

// CatalogListQuery filters the course listing.
type CatalogListQuery struct {
	Search     string `form:"search" json:"search"`
	Department string `form:"department" json:"department"`
	Page       int    `form:"page" json:"page"`
	PageSize   int    `form:"pageSize" json:"pageSize"`
}

// SlotView is the outbound form of a class meeting, carrying both the
// nominal times and the effective times under the active remap table.
type SlotView struct {
	Day            string `json:"day"`
	Start          string `json:"start"`
	End            string `json:"end"`
	EffectiveStart string `json:"effectiveStart,omitempty"`
	EffectiveEnd   string `json:"effectiveEnd,omitempty"`
	Room           string `json:"room,omitempty"`
	Type           string `json:"type,omitempty"`
}

// SectionView is the outbound form of a section.
type SectionView struct {
	Label    string     `json:"label"`
	Status   string     `json:"status"`
	Capacity int        `json:"capacity"`
	Enrolled int        `json:"enrolled"`
	Slots    []SlotView `json:"slots"`
}

// CourseView is the outbound form of a catalog course.
type CourseView struct {
	Key        string        `json:"key"`
	Code       string        `json:"code"`
	Title      string        `json:"title"`
	Department string        `json:"department"`
	Sections   []SectionView `json:"sections"`
}

// CatalogMetaResponse exposes the current catalog provenance.
type CatalogMetaResponse struct {
	Semester    string    `json:"semester"`
	CourseCount int       `json:"courseCount"`
	SyncedAt    time.Time `json:"syncedAt"`
}
