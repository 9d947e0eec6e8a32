package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// MockAdapter offers hourly consultation slots for every doctor and keeps
// bookings in memory for the lifetime of the process only.
type MockAdapter struct {
	firstHour    int
	lastHour     int
	slotDuration time.Duration

	mu     sync.Mutex
	booked map[string]struct{}
}

// NewMockAdapter creates a mock scheduling provider with slots from 9:00 AM
// to 6:00 PM.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		firstHour:    9,
		lastHour:     18,
		slotDuration: time.Hour,
		booked:       make(map[string]struct{}),
	}
}

// TimeLabels lists the slot start times offered on every day, e.g. "9:00 AM".
func (m *MockAdapter) TimeLabels() []string {
	labels := make([]string, 0, m.lastHour-m.firstHour+1)
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for hour := m.firstHour; hour <= m.lastHour; hour++ {
		labels = append(labels, day.Add(time.Duration(hour)*time.Hour).Format(entities.SlotTimeLayout))
	}
	return labels
}

// GetAvailableSlots returns every slot on the calendar days in [from, to).
func (m *MockAdapter) GetAvailableSlots(ctx context.Context, doctorID string, from, to time.Time) ([]entities.AvailabilitySlot, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid time range")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var slots []entities.AvailabilitySlot
	for day := startOfDay(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		for hour := m.firstHour; hour <= m.lastHour; hour++ {
			start := day.Add(time.Duration(hour) * time.Hour)
			slot := entities.AvailabilitySlot{
				DoctorID:  doctorID,
				Date:      start.Format(entities.SlotDateLayout),
				DateLabel: start.Format(entities.SlotDateLabelLayout),
				Time:      start.Format(entities.SlotTimeLayout),
				StartTime: start,
				EndTime:   start.Add(m.slotDuration),
			}
			_, slot.IsBooked = m.booked[bookingKey(doctorID, slot.Date, slot.Time)]
			slots = append(slots, slot)
		}
	}

	return slots, nil
}

// CreateAppointment holds the requested slot and returns a booking reference.
func (m *MockAdapter) CreateAppointment(ctx context.Context, req *entities.AppointmentRequest) (string, error) {
	key := bookingKey(req.DoctorID, req.Date, req.Time)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.booked[key]; taken {
		return "", apperrors.NewConflictError(fmt.Sprintf("%s at %s is already booked", req.Date, req.Time))
	}
	m.booked[key] = struct{}{}

	return uuid.New().String(), nil
}

func bookingKey(doctorID, date, clock string) string {
	return doctorID + "|" + date + "|" + clock
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
