package models

// RemapTable maps a nominal "HH:MM AM - HH:MM PM" range to its remapped
// [start, end] labels. Entries whose value equals the key are identity
// mappings and are ignored by the resolver.
type RemapTable map[string][2]string

// RemapSettings is the globally shared remap configuration managed by the
// admin: whether the alternate timetable is offered at all, and the shared
// mapping table consulted after session overrides.
type RemapSettings struct {
	Enabled  bool       `json:"featureEnabled"`
	Mappings RemapTable `json:"mappings,omitempty"`
}
