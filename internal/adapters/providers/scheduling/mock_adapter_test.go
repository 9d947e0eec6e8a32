package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

func TestMockAdapter_TimeLabels(t *testing.T) {
	labels := NewMockAdapter().TimeLabels()

	assert.Equal(t, []string{
		"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM",
		"2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM", "6:00 PM",
	}, labels)
}

func TestMockAdapter_GetAvailableSlots(t *testing.T) {
	adapter := NewMockAdapter()
	from := time.Date(2026, time.October, 19, 14, 30, 0, 0, time.UTC)

	slots, err := adapter.GetAvailableSlots(context.Background(), "7", from, from.AddDate(0, 0, 7))
	require.NoError(t, err)

	// whole calendar days: the 26th starts before `to`, so it is included
	require.Len(t, slots, 80)
	assert.Equal(t, entities.AvailabilitySlot{
		DoctorID:  "7",
		Date:      "2026-10-19",
		DateLabel: "Mon, Oct 19",
		Time:      "9:00 AM",
		StartTime: time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC),
	}, slots[0])
	assert.Equal(t, "2026-10-26", slots[len(slots)-1].Date)
	assert.Equal(t, "6:00 PM", slots[len(slots)-1].Time)
}

func TestMockAdapter_SevenDayWindowFromMidnight(t *testing.T) {
	from := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	slots, err := NewMockAdapter().GetAvailableSlots(context.Background(), "7", from, from.AddDate(0, 0, 7))

	require.NoError(t, err)
	assert.Len(t, slots, 70)
}

func TestMockAdapter_InvalidRange(t *testing.T) {
	now := time.Now()
	_, err := NewMockAdapter().GetAvailableSlots(context.Background(), "7", now, now.Add(-time.Hour))
	assert.Error(t, err)
}

func TestMockAdapter_CreateAppointment(t *testing.T) {
	adapter := NewMockAdapter()
	req := &entities.AppointmentRequest{DoctorID: "7", Date: "2026-10-20", Time: "11:00 AM"}

	ref, err := adapter.CreateAppointment(context.Background(), req)
	require.NoError(t, err)
	_, parseErr := uuid.Parse(ref)
	assert.NoError(t, parseErr)

	_, err = adapter.CreateAppointment(context.Background(), req)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	from := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
	slots, err := adapter.GetAvailableSlots(context.Background(), "7", from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	for _, slot := range slots {
		assert.Equal(t, slot.Time == "11:00 AM", slot.IsBooked, slot.Time)
	}

	other, err := adapter.GetAvailableSlots(context.Background(), "8", from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	for _, slot := range other {
		assert.False(t, slot.IsBooked)
	}
}
