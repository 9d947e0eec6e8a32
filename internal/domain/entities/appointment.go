package entities

import (
	"time"
)

// Slot label layouts.
const (
	SlotDateLayout      = "2006-01-02"
	SlotDateLabelLayout = "Mon, Jan 2"
	SlotTimeLayout      = "3:04 PM"
)

// AvailabilitySlot is a bookable consultation slot offered for a doctor
type AvailabilitySlot struct {
	DoctorID  string    `json:"doctorId"`
	Date      string    `json:"date"`
	DateLabel string    `json:"dateLabel"`
	Time      string    `json:"time"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	IsBooked  bool      `json:"isBooked"`
}

// AppointmentRequest is a mock booking request for a doctor slot
type AppointmentRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// AppointmentConfirmation acknowledges a mock booking. It is never stored.
type AppointmentConfirmation struct {
	Reference  string    `json:"reference"`
	DoctorID   string    `json:"doctorId"`
	DoctorName string    `json:"doctorName"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Message    string    `json:"message"`
	BookedAt   time.Time `json:"bookedAt"`
}
