package providers

import (
	"context"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// DoctorSource delivers the raw doctor list. Fetch returns either the whole
// list or an error, never a partial list.
type DoctorSource interface {
	Fetch(ctx context.Context) ([]entities.RawDoctor, error)
}

// InvalidatingSource is a DoctorSource that keeps a copy of the payload and
// can be told to drop it.
type InvalidatingSource interface {
	DoctorSource
	Invalidate(ctx context.Context) error
}
