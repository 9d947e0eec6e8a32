package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	BookAppointment(ctx context.Context, req *entities.AppointmentRequest) (*entities.AppointmentConfirmation, error)
	GetAvailableSlots(ctx context.Context, doctorID string, from time.Time) ([]entities.AvailabilitySlot, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req entities.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	confirmation, err := h.service.BookAppointment(r.Context(), &req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, confirmation)
}

// GetAvailability handles GET /api/doctors/{id}/availability. The optional
// from parameter is a date (YYYY-MM-DD) or an RFC3339 timestamp.
func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	var from time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := parseFrom(fromStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid from date format (use YYYY-MM-DD or RFC3339)")
			return
		}
		from = parsed
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), doctorID, from)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"slots": slots,
	})
}

func parseFrom(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(entities.SlotDateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
