package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/doctordirectory/internal/directory"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// maxSuggestLimit caps the limit query parameter of the suggest endpoint.
const maxSuggestLimit = 20

// DirectoryService defines the directory operations the handler needs
type DirectoryService interface {
	Search(ctx context.Context, state entities.FilterState) (*entities.DoctorSearchResult, error)
	Specialties(ctx context.Context, term string) ([]string, error)
	Suggest(ctx context.Context, term string, limit int) ([]entities.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*entities.DoctorView, error)
	Refresh(ctx context.Context) (entities.DirectorySnapshot, error)
}

// DoctorHandler handles doctor directory requests
type DoctorHandler struct {
	service DirectoryService
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(service DirectoryService) *DoctorHandler {
	return &DoctorHandler{
		service: service,
	}
}

// ListDoctors handles GET /api/doctors. The query string carries the filter
// state (search, consultMode, specialty, sortBy); unknown values are ignored.
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	state := directory.ParseFilterState(r.URL.Query())

	result, err := h.service.Search(r.Context(), state)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ListSpecialties handles GET /api/doctors/specialties?q=
func (h *DoctorHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.service.Specialties(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialties": specialties,
		"count":       len(specialties),
	})
}

// SuggestDoctors handles GET /api/doctors/suggest?search=&limit=
func (h *DoctorHandler) SuggestDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := directory.DefaultSuggestionLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSuggestLimit)
	}

	doctors, err := h.service.Suggest(r.Context(), query.Get(directory.ParamSearch), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": doctors,
	})
}

// GetDoctor handles GET /api/doctors/{id}
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	view, err := h.service.GetDoctor(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// Refresh handles POST /api/doctors/refresh, re-running the doctor list fetch.
func (h *DoctorHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Refresh(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}
