package directory

import (
	"strconv"
	"strings"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// NewCard derives the display labels shown on a doctor card.
func NewCard(d entities.Doctor) entities.DoctorCard {
	modes := []string{}
	if d.SupportsVideoConsult {
		modes = append(modes, string(entities.ConsultModeVideo))
	}
	if d.SupportsInClinic {
		modes = append(modes, string(entities.ConsultModeInClinic))
	}

	return entities.DoctorCard{
		DoctorID:        d.ID,
		SpecialtyLabel:  strings.Join(d.Specialties, ", "),
		ExperienceLabel: strconv.Itoa(d.ExperienceYears) + " yrs exp.",
		FeeLabel:        "₹ " + strconv.Itoa(d.FeeAmount),
		LanguagesLabel:  strings.Join(d.Languages, ", "),
		ConsultModes:    modes,
	}
}

// NewCards builds one card per doctor, in list order.
func NewCards(doctors []entities.Doctor) []entities.DoctorCard {
	cards := make([]entities.DoctorCard, 0, len(doctors))
	for _, d := range doctors {
		cards = append(cards, NewCard(d))
	}
	return cards
}
