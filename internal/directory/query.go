package directory

import (
	"net/url"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// Query parameter names carrying the filter state.
const (
	ParamSearch      = "search"
	ParamConsultMode = "consultMode"
	ParamSpecialty   = "specialty"
	ParamSortBy      = "sortBy"
)

// ParseFilterState decodes query parameters into a FilterState. It never
// fails: absent or unrecognised values become the field's default.
func ParseFilterState(values url.Values) entities.FilterState {
	state := entities.FilterState{
		SearchTerm:  lastValue(values, ParamSearch),
		Specialties: []string{},
	}

	if mode := entities.ConsultMode(lastValue(values, ParamConsultMode)); mode.Valid() {
		state.ConsultMode = mode
	}
	if key := entities.SortKey(lastValue(values, ParamSortBy)); key.Valid() {
		state.SortBy = key
	}

	seen := make(map[string]struct{})
	for _, specialty := range values[ParamSpecialty] {
		if specialty == "" {
			continue
		}
		if _, dup := seen[specialty]; dup {
			continue
		}
		seen[specialty] = struct{}{}
		state.Specialties = append(state.Specialties, specialty)
	}

	return state
}

// ParseQuery decodes a raw query string. Malformed pairs are skipped.
func ParseQuery(rawQuery string) entities.FilterState {
	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(rawQuery)
	return ParseFilterState(values)
}

// Values encodes a FilterState, omitting fields that hold their default.
func Values(state entities.FilterState) url.Values {
	values := url.Values{}
	if state.SearchTerm != "" {
		values.Set(ParamSearch, state.SearchTerm)
	}
	if state.ConsultMode != entities.ConsultModeAny {
		values.Set(ParamConsultMode, string(state.ConsultMode))
	}
	for _, specialty := range state.Specialties {
		if specialty != "" {
			values.Add(ParamSpecialty, specialty)
		}
	}
	if state.SortBy != entities.SortNone {
		values.Set(ParamSortBy, string(state.SortBy))
	}
	return values
}

// Encode renders a FilterState as a query string (without the leading "?").
func Encode(state entities.FilterState) string {
	return Values(state).Encode()
}

func lastValue(values url.Values, key string) string {
	vs := values[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}
