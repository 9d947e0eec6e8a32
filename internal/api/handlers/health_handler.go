package handlers

import (
	"net/http"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// SnapshotReporter reports the state of the loaded directory
type SnapshotReporter interface {
	Snapshot() entities.DirectorySnapshot
}

// HealthHandler serves the health endpoint
type HealthHandler struct {
	directory SnapshotReporter
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(directory SnapshotReporter, version string) *HealthHandler {
	return &HealthHandler{directory: directory, version: version}
}

type healthResponse struct {
	Status    string                     `json:"status"`
	Version   string                     `json:"version,omitempty"`
	Directory entities.DirectorySnapshot `json:"directory"`
}

// Health handles GET /health. The process is healthy before the first
// load completes; the directory block reports whether data is available.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: h.version}
	if h.directory != nil {
		resp.Directory = h.directory.Snapshot()
	}
	respondWithJSON(w, http.StatusOK, resp)
}
