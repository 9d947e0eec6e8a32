package directory

import (
	"cmp"
	"slices"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// DefaultSuggestionLimit is how many doctors the search box suggests.
const DefaultSuggestionLimit = 3

// Apply runs the search, consultation-mode and specialty stages in that order,
// keeping doctors that pass every enabled stage, then applies the stable sort.
// The input slice is not modified.
func Apply(doctors []entities.Doctor, state entities.FilterState) []entities.Doctor {
	search := newTermMatcher(state.SearchTerm)
	wanted := specialtySet(state.Specialties)

	out := make([]entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if !search.matchesDoctor(d.DisplayName, d.Specialties) {
			continue
		}
		if !matchesConsultMode(d, state.ConsultMode) {
			continue
		}
		if !matchesSpecialties(d, wanted) {
			continue
		}
		out = append(out, d)
	}

	sortDoctors(out, state.SortBy)
	return out
}

// Suggest returns up to limit doctors matching term by name or specialty, in
// input order. A blank term yields no suggestions.
func Suggest(doctors []entities.Doctor, term string, limit int) []entities.Doctor {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	out := []entities.Doctor{}
	search := newTermMatcher(term)
	if !search.enabled {
		return out
	}
	for _, d := range doctors {
		if len(out) == limit {
			break
		}
		if search.matchesDoctor(d.DisplayName, d.Specialties) {
			out = append(out, d)
		}
	}
	return out
}

// matchesConsultMode treats the empty mode and unknown modes as "no filter".
func matchesConsultMode(d entities.Doctor, mode entities.ConsultMode) bool {
	switch mode {
	case entities.ConsultModeVideo:
		return d.SupportsVideoConsult
	case entities.ConsultModeInClinic:
		return d.SupportsInClinic
	}
	return true
}

func specialtySet(specialties []string) map[string]struct{} {
	if len(specialties) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(specialties))
	for _, s := range specialties {
		set[s] = struct{}{}
	}
	return set
}

// matchesSpecialties keeps a doctor with any of the wanted specialties (OR).
func matchesSpecialties(d entities.Doctor, wanted map[string]struct{}) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, s := range d.Specialties {
		if _, ok := wanted[s]; ok {
			return true
		}
	}
	return false
}

func sortDoctors(doctors []entities.Doctor, key entities.SortKey) {
	switch key {
	case entities.SortByFees:
		slices.SortStableFunc(doctors, func(a, b entities.Doctor) int {
			return cmp.Compare(a.FeeAmount, b.FeeAmount)
		})
	case entities.SortByExperience:
		slices.SortStableFunc(doctors, func(a, b entities.Doctor) int {
			return cmp.Compare(b.ExperienceYears, a.ExperienceYears)
		})
	}
}
