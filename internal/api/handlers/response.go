package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}

// respondWithAppError maps an error to its HTTP status. Failures of the doctor
// feed are reported as 503 and flagged retryable so clients can offer a retry.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("Upstream failure")
		respondWithJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     appErr.Message,
			Retryable: true,
		})
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Request failed")
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	}
}
