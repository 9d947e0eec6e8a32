package directory

import (
	"sort"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// UniqueSpecialties returns every specialty label across doctors, deduplicated
// and sorted byte-wise (case-sensitive).
func UniqueSpecialties(doctors []entities.Doctor) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, d := range doctors {
		for _, specialty := range d.Specialties {
			if specialty == "" {
				continue
			}
			if _, dup := seen[specialty]; dup {
				continue
			}
			seen[specialty] = struct{}{}
			out = append(out, specialty)
		}
	}
	sort.Strings(out)
	return out
}

// MatchSpecialties narrows a specialty option list to the entries containing
// term, ignoring case. A blank term returns a copy of all options.
func MatchSpecialties(options []string, term string) []string {
	m := newTermMatcher(term)
	out := make([]string, 0, len(options))
	for _, option := range options {
		if !m.enabled || m.contains(option) {
			out = append(out, option)
		}
	}
	return out
}
