// Package directory holds the doctor directory core: record normalization,
// specialty extraction, filtering and sorting, and the query-state codec.
// Everything here is pure and safe to call from any goroutine.
package directory

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

const (
	DefaultDisplayName = "Doctor"
	DefaultSpecialty   = "General Physician"
	DefaultEducation   = "MBBS"
	DefaultFeeAmount   = 500

	// PlaceholderPhotoURL is a grey avatar used when a record has no photo.
	PlaceholderPhotoURL = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHdpZHRoPSI4MCIgaGVpZ2h0PSI4MCIgdmlld0JveD0iMCAwIDgwIDgwIiBmaWxsPSJub25lIj48cmVjdCB3aWR0aD0iODAiIGhlaWdodD0iODAiIGZpbGw9IiNFNUU1RTUiLz48cGF0aCBkPSJNNDAgMjVDMzYuNzAzOSAyNSAzNCAyNy43MDM5IDM0IDMxQzM0IDM0LjI5NjEgMzYuNzAzOSAzNyA0MCAzN0M0My4yOTYxIDM3IDQ2IDM0LjI5NjEgNDYgMzFDNDYgMjcuNzAzOSA0My4yOTYxIDI1IDQwIDI1Wk00MCA1MUMzMi4yNjggNTEgMjYgNTcuMjY4IDI2IDY1SDU0QzU0IDU3LjI2OCA0Ny43MzIgNTEgNDAgNTFaIiBmaWxsPSIjQThBOEE4Ii8+PC9zdmc+"

	doctorTitle = "Dr. "
)

// currencyWords are currency markers spelled out; any Unicode currency
// symbol (₹, $, €, £...) counts as a marker too.
var currencyWords = []string{"Rs", "INR"}

// recordShape identifies which family of field names a raw record uses.
type recordShape int

const (
	// shapeSource covers every upstream feed version (name/speciality/fees...).
	shapeSource recordShape = iota
	// shapeCanonical is a record that was already normalized (displayName/specialties/feeAmount...).
	shapeCanonical
)

func shapeOf(rec record) recordShape {
	if _, ok := rec["displayName"]; ok {
		return shapeCanonical
	}
	return shapeSource
}

// Normalize converts a raw record into the canonical doctor shape. It never
// fails: missing or malformed fields fall back to their defaults. index is
// used as the ID when the record has none.
func Normalize(raw entities.RawDoctor, index int) entities.Doctor {
	rec := record(raw)
	if shapeOf(rec) == shapeCanonical {
		return fromCanonical(rec, index)
	}
	return fromSource(rec, index)
}

// NormalizeAll normalizes every record, using each position as the fallback ID.
func NormalizeAll(raws []entities.RawDoctor) []entities.Doctor {
	doctors := make([]entities.Doctor, 0, len(raws))
	for i, raw := range raws {
		doctors = append(doctors, Normalize(raw, i))
	}
	return doctors
}

func fromSource(rec record, index int) entities.Doctor {
	return entities.Doctor{
		ID:                   resolveID(rec.get("id"), index),
		DisplayName:          withTitle(sourceName(rec)),
		Specialties:          sourceSpecialties(rec),
		ClinicName:           sourceClinic(rec),
		AddressLabel:         sourceAddress(rec),
		EducationLabel:       orDefault(renderText(rec.first("education", "qualification")), DefaultEducation),
		Introduction:         renderText(rec.get("doctor_introduction")),
		ExperienceYears:      experienceYears(rec.first("experience", "yearsOfExperience")),
		FeeAmount:            feeAmount(rec.first("fees", "fee")),
		Languages:            languages(rec.get("languages")),
		SupportsVideoConsult: supportsMode(rec, "video_consult", entities.ConsultModeVideo),
		SupportsInClinic:     supportsMode(rec, "in_clinic", entities.ConsultModeInClinic),
		PhotoURL:             photoURL(rec.get("photo"), rec.get("image")),
	}
}

func fromCanonical(rec record, index int) entities.Doctor {
	return entities.Doctor{
		ID:                   resolveID(rec.get("id"), index),
		DisplayName:          withTitle(orDefault(renderText(rec.get("displayName")), DefaultDisplayName)),
		Specialties:          canonicalSpecialties(rec.get("specialties")),
		ClinicName:           renderText(rec.get("clinicName")),
		AddressLabel:         renderText(rec.get("addressLabel")),
		EducationLabel:       orDefault(renderText(rec.get("educationLabel")), DefaultEducation),
		Introduction:         renderText(rec.get("introduction")),
		ExperienceYears:      experienceYears(rec.get("experienceYears")),
		FeeAmount:            feeAmount(rec.get("feeAmount")),
		Languages:            languages(rec.get("languages")),
		SupportsVideoConsult: isTrue(rec.get("supportsVideoConsult")),
		SupportsInClinic:     isTrue(rec.get("supportsInClinic")),
		PhotoURL:             photoURL(rec.get("photoUrl")),
	}
}

func resolveID(v value, index int) string {
	switch v.kind {
	case kindString:
		if v.text != "" {
			return v.text
		}
	case kindNumber:
		return v.text
	}
	return strconv.Itoa(index)
}

func sourceName(rec record) string {
	if inner := rec.get("name").field("name"); inner.kind == kindString && inner.text != "" {
		return inner.text
	}
	v := rec.first("name", "doctorName")
	if !v.present() {
		return DefaultDisplayName
	}
	return orDefault(renderText(v), DefaultDisplayName)
}

// withTitle prefixes the standard doctor title unless it is already there.
func withTitle(name string) string {
	if strings.HasPrefix(name, "Dr.") || strings.HasPrefix(name, "Dr ") {
		return name
	}
	return doctorTitle + name
}

func sourceSpecialties(rec record) []string {
	if list := rec.get("specialities"); list.kind == kindArray && len(list.array()) > 0 {
		if names := specialityNames(list.array()); len(names) > 0 {
			return names
		}
	}

	switch single := rec.get("speciality"); single.kind {
	case kindArray:
		if names := renderEach(single.array()); len(names) > 0 {
			return names
		}
	default:
		if text := renderText(single); text != "" {
			return []string{text}
		}
	}

	return []string{DefaultSpecialty}
}

// specialityNames reads the {name} entries of an API specialities list.
func specialityNames(items []any) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		v := classify(item)
		switch v.kind {
		case kindObject:
			if name := renderText(v.field("name")); name != "" {
				names = append(names, name)
			}
		case kindString:
			if v.text != "" {
				names = append(names, v.text)
			}
		}
	}
	return names
}

func renderEach(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if text := renderText(classify(item)); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func canonicalSpecialties(v value) []string {
	switch v.kind {
	case kindArray:
		if names := renderEach(v.array()); len(names) > 0 {
			return names
		}
	case kindString:
		if v.text != "" {
			return []string{v.text}
		}
	}
	return []string{DefaultSpecialty}
}

func sourceClinic(rec record) string {
	clinic := rec.get("clinic")
	if clinic.kind == kindObject {
		return renderText(clinic.field("name"))
	}

	v := firstPresent(clinic, rec.get("hospital"), rec.get("name").field("clinic"))
	if v.kind == kindObject {
		if name := v.field("name"); name.present() {
			return renderText(name)
		}
	}
	return renderText(v)
}

func sourceAddress(rec record) string {
	if clinic := rec.get("clinic"); clinic.kind == kindObject {
		if addr := clinic.field("address"); addr.present() {
			return clinicAddress(addr)
		}
	}

	v := firstPresent(rec.get("address"), rec.get("location"), rec.get("city"), rec.get("name").field("address"))
	return renderText(v)
}

// clinicAddress formats the address block nested inside a clinic object.
func clinicAddress(addr value) string {
	switch addr.kind {
	case kindObject:
		if locality := addr.field("locality"); locality.present() {
			if city := addr.field("city"); city.present() {
				return renderText(locality) + ", " + renderText(city)
			}
			return renderText(locality)
		}
		return renderText(addr.field("address_line1"))
	case kindString, kindNumber:
		return addr.text
	}
	return ""
}

func experienceYears(v value) int {
	if n, ok := firstInt(v.scalarText()); ok {
		return n
	}
	return 0
}

func feeAmount(v value) int {
	switch v.kind {
	case kindString:
		if hasCurrencyMarker(v.text) {
			if n, ok := firstInt(v.text); ok {
				return n
			}
			return DefaultFeeAmount
		}
		if n, ok := leadingInt(strings.TrimSpace(v.text)); ok && n >= 0 {
			return n
		}
	case kindNumber:
		if v.num >= 0 && v.num <= math.MaxInt32 {
			return int(v.num)
		}
	}
	return DefaultFeeAmount
}

func hasCurrencyMarker(s string) bool {
	if strings.IndexFunc(s, func(r rune) bool { return unicode.Is(unicode.Sc, r) }) >= 0 {
		return true
	}
	for _, word := range currencyWords {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

func languages(v value) []string {
	if v.kind != kindArray {
		return []string{}
	}
	return renderEach(v.array())
}

func supportsMode(rec record, flag string, mode entities.ConsultMode) bool {
	if isTrue(rec.get(flag)) {
		return true
	}

	legacy := rec.get("consultationMode")
	switch legacy.kind {
	case kindString:
		return legacy.text == string(mode)
	case kindArray:
		for _, item := range legacy.array() {
			if s, ok := item.(string); ok && s == string(mode) {
				return true
			}
		}
	}
	return false
}

// isTrue is a strict check: only a boolean true counts, never "true" or 1.
func isTrue(v value) bool {
	return v.kind == kindBool && v.b
}

func photoURL(candidates ...value) string {
	for _, v := range candidates {
		if v.kind == kindString && v.text != "" {
			return v.text
		}
	}
	return PlaceholderPhotoURL
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
