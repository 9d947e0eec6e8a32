package directory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/doctordirectory/internal/directory"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

func TestNewCard(t *testing.T) {
	card := directory.NewCard(entities.Doctor{
		ID:                   "7",
		Specialties:          []string{"Dentist", "Orthodontist"},
		ExperienceYears:      11,
		FeeAmount:            650,
		Languages:            []string{"English", "Marathi"},
		SupportsVideoConsult: true,
		SupportsInClinic:     true,
	})

	assert.Equal(t, entities.DoctorCard{
		DoctorID:        "7",
		SpecialtyLabel:  "Dentist, Orthodontist",
		ExperienceLabel: "11 yrs exp.",
		FeeLabel:        "₹ 650",
		LanguagesLabel:  "English, Marathi",
		ConsultModes:    []string{"Video Consult", "In Clinic"},
	}, card)
}

func TestNewCards_Empty(t *testing.T) {
	cards := directory.NewCards(nil)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestNewCards_KeepsOrder(t *testing.T) {
	cards := directory.NewCards([]entities.Doctor{{ID: "3"}, {ID: "1"}, {ID: "2"}})

	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.DoctorID)
	}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
}
