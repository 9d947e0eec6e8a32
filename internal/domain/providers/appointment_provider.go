package providers

import (
	"context"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// AppointmentProvider defines the interface for scheduling backends that
// offer consultation slots for a doctor and accept bookings.
type AppointmentProvider interface {
	// GetAvailableSlots returns the slots offered for a doctor on the days in [from, to)
	GetAvailableSlots(ctx context.Context, doctorID string, from, to time.Time) ([]entities.AvailabilitySlot, error)

	// CreateAppointment books a slot and returns the provider's booking reference
	CreateAppointment(ctx context.Context, req *entities.AppointmentRequest) (reference string, err error)
}
