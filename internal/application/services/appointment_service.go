package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// BookingWindowDays is how many days ahead, today included, slots are offered.
const BookingWindowDays = 7

// DoctorLookup resolves a doctor by ID.
type DoctorLookup interface {
	GetDoctor(ctx context.Context, id string) (*entities.DoctorView, error)
}

// AppointmentService handles mock appointment booking. Nothing is stored
// beyond what the scheduling provider keeps in memory.
type AppointmentService struct {
	doctors  DoctorLookup
	provider providers.AppointmentProvider
	now      func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(doctors DoctorLookup, provider providers.AppointmentProvider) *AppointmentService {
	return &AppointmentService{
		doctors:  doctors,
		provider: provider,
		now:      time.Now,
	}
}

// WithClock overrides the service clock.
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

// GetAvailableSlots returns the slots for the booking window starting on the
// day of from. A zero from means today.
func (s *AppointmentService) GetAvailableSlots(ctx context.Context, doctorID string, from time.Time) ([]entities.AvailabilitySlot, error) {
	if _, err := s.doctors.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	if from.IsZero() {
		from = s.now()
	}
	start := dayStart(from)

	slots, err := s.provider.GetAvailableSlots(ctx, doctorID, start, start.AddDate(0, 0, BookingWindowDays))
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch availability", err)
	}
	return slots, nil
}

// BookAppointment books one of the offered slots and returns a confirmation.
func (s *AppointmentService) BookAppointment(ctx context.Context, req *entities.AppointmentRequest) (*entities.AppointmentConfirmation, error) {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)

	if req.DoctorID == "" {
		return nil, apperrors.NewValidationError("doctorId is required")
	}
	if req.Date == "" || req.Time == "" {
		return nil, apperrors.NewValidationError("date and time are required")
	}

	view, err := s.doctors.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	if err := s.validateSlot(ctx, req); err != nil {
		return nil, err
	}

	reference, err := s.provider.CreateAppointment(ctx, req)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.NewExternalError("failed to book with provider", err)
	}
	if reference == "" {
		reference = uuid.New().String()
	}

	return &entities.AppointmentConfirmation{
		Reference:  reference,
		DoctorID:   req.DoctorID,
		DoctorName: view.Doctor.DisplayName,
		Date:       req.Date,
		Time:       req.Time,
		Message:    fmt.Sprintf("Appointment booked with %s on %s at %s", view.Doctor.DisplayName, req.Date, req.Time),
		BookedAt:   s.now(),
	}, nil
}

// validateSlot checks the requested date and time against the offered slots.
func (s *AppointmentService) validateSlot(ctx context.Context, req *entities.AppointmentRequest) error {
	if _, err := time.ParseInLocation(entities.SlotDateLayout, req.Date, s.now().Location()); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("date %q must use YYYY-MM-DD", req.Date))
	}

	slots, err := s.GetAvailableSlots(ctx, req.DoctorID, time.Time{})
	if err != nil {
		return err
	}

	dateOffered := false
	idx := slices.IndexFunc(slots, func(slot entities.AvailabilitySlot) bool {
		if slot.Date != req.Date {
			return false
		}
		dateOffered = true
		return slot.Time == req.Time
	})

	switch {
	case !dateOffered:
		return apperrors.NewValidationError(fmt.Sprintf("date %s is outside the %d day booking window", req.Date, BookingWindowDays))
	case idx < 0:
		return apperrors.NewValidationError(fmt.Sprintf("time %q is not an offered slot", req.Time))
	case slots[idx].IsBooked:
		return apperrors.NewConflictError(fmt.Sprintf("%s at %s is already booked", req.Date, req.Time))
	}
	return nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
