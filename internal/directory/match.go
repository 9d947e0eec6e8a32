package directory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// termMatcher performs case-insensitive substring matching against one search term.
// A Caser keeps internal state, so a matcher must stay on one goroutine.
type termMatcher struct {
	caser   cases.Caser
	term    string
	enabled bool
}

func newTermMatcher(term string) *termMatcher {
	m := &termMatcher{caser: cases.Fold()}
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return m
	}
	m.term = m.fold(trimmed)
	m.enabled = true
	return m
}

func (m *termMatcher) fold(s string) string {
	return m.caser.String(norm.NFC.String(s))
}

func (m *termMatcher) contains(s string) bool {
	return strings.Contains(m.fold(s), m.term)
}

// matchesDoctor reports whether the display name or any specialty contains the term.
// A disabled matcher accepts every doctor.
func (m *termMatcher) matchesDoctor(name string, specialties []string) bool {
	if !m.enabled {
		return true
	}
	if m.contains(name) {
		return true
	}
	for _, specialty := range specialties {
		if m.contains(specialty) {
			return true
		}
	}
	return false
}
