package dto

// RemapUploadRequest replaces a remap table. Keys are canonical range
// labels ("08:00 AM - 09:30 AM"), values the replacement start and end.
type RemapUploadRequest struct {
	Mappings map[string][2]string `json:"mappings" validate:"required,min=1"`
}

// RemapToggleRequest switches the shared compressed-timetable flag.
type RemapToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// RemapSettingsResponse exposes the shared remap configuration.
type RemapSettingsResponse struct {
	Enabled  bool                 `json:"enabled"`
	Mappings map[string][2]string `json:"mappings"`
}

// EffectivePair shows a nominal range next to its remapped form, for
// rendering the compressed timetable side by side with the printed one.
type EffectivePair struct {
	Day            string `json:"day"`
	NominalStart   string `json:"nominalStart"`
	NominalEnd     string `json:"nominalEnd"`
	EffectiveStart string `json:"effectiveStart"`
	EffectiveEnd   string `json:"effectiveEnd"`
	Changed        bool   `json:"changed"`
}

// EffectiveTimesResponse maps the chosen sections' meetings through the
// active remap tables.
type EffectiveTimesResponse struct {
	Enabled bool            `json:"enabled"`
	Pairs   []EffectivePair `json:"pairs"`
}
