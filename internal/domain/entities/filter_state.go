package entities

// ConsultMode selects doctors by consultation channel.
type ConsultMode string

const (
	ConsultModeAny      ConsultMode = ""
	ConsultModeVideo    ConsultMode = "Video Consult"
	ConsultModeInClinic ConsultMode = "In Clinic"
)

// Valid reports whether m is one of the known modes, including the empty mode.
func (m ConsultMode) Valid() bool {
	switch m {
	case ConsultModeAny, ConsultModeVideo, ConsultModeInClinic:
		return true
	}
	return false
}

// SortKey orders a filtered doctor list.
type SortKey string

const (
	SortNone         SortKey = ""
	SortByFees       SortKey = "fees"
	SortByExperience SortKey = "experience"
)

// Valid reports whether k is one of the known sort keys, including the empty key.
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortByFees, SortByExperience:
		return true
	}
	return false
}

// FilterState is the set of active search, filter and sort criteria.
// It is rebuilt from the query string on every read and never mutated.
type FilterState struct {
	SearchTerm  string      `json:"searchTerm"`
	ConsultMode ConsultMode `json:"consultMode"`
	Specialties []string    `json:"specialties"`
	SortBy      SortKey     `json:"sortBy"`
}
