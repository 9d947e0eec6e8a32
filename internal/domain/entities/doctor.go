package entities

import "time"

// RawDoctor is a doctor record exactly as the upstream feed delivered it.
// Field presence and shape vary between feed versions.
type RawDoctor map[string]any

// Doctor is the canonical, normalized doctor record.
type Doctor struct {
	ID                   string   `json:"id"`
	DisplayName          string   `json:"displayName"`
	Specialties          []string `json:"specialties"`
	ClinicName           string   `json:"clinicName"`
	AddressLabel         string   `json:"addressLabel"`
	EducationLabel       string   `json:"educationLabel"`
	Introduction         string   `json:"introduction"`
	ExperienceYears      int      `json:"experienceYears"`
	FeeAmount            int      `json:"feeAmount"`
	Languages            []string `json:"languages"`
	SupportsVideoConsult bool     `json:"supportsVideoConsult"`
	SupportsInClinic     bool     `json:"supportsInClinic"`
	PhotoURL             string   `json:"photoUrl"`
}

// DoctorCard holds the display labels rendered on a doctor card.
type DoctorCard struct {
	DoctorID        string   `json:"doctorId"`
	SpecialtyLabel  string   `json:"specialtyLabel"`
	ExperienceLabel string   `json:"experienceLabel"`
	FeeLabel        string   `json:"feeLabel"`
	LanguagesLabel  string   `json:"languagesLabel"`
	ConsultModes    []string `json:"consultModes"`
}

// DoctorView pairs a doctor with its card labels.
type DoctorView struct {
	Doctor Doctor     `json:"doctor"`
	Card   DoctorCard `json:"card"`
}

// DoctorSearchResult is the response for a filtered directory listing.
type DoctorSearchResult struct {
	Doctors []Doctor     `json:"doctors"`
	Cards   []DoctorCard `json:"cards"`
	Count   int          `json:"count"`
	Total   int          `json:"total"`
	Filters FilterState  `json:"filters"`
	Query   string       `json:"query"`
}

// DirectorySnapshot describes the currently loaded doctor list.
type DirectorySnapshot struct {
	Count       int       `json:"count"`
	Specialties int       `json:"specialties"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Loaded      bool      `json:"loaded"`
}
