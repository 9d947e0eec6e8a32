package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileSource reads the doctor list from a local fixture. Files ending in
// .yaml or .yml are read as YAML, everything else as JSON.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch implements providers.DoctorSource.
func (s *FileSource) Fetch(ctx context.Context) ([]entities.RawDoctor, error) {
	start := time.Now()
	doctors, err := s.read()
	observability.RecordSourceFetch(ctx, "file", time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read doctor fixture", err)
	}
	return doctors, nil
}

func (s *FileSource) read() ([]entities.RawDoctor, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		var payload any
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid YAML fixture %s: %w", s.path, err)
		}
		return toRawDoctors(payload)
	default:
		return decodeJSONList(bytes.NewReader(data))
	}
}
