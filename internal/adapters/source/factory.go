package source

import (
	"context"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

// NewDoctorSource builds the source described by cfg. cache may be nil, in
// which case every fetch reaches the upstream source.
func NewDoctorSource(cfg config.SourceConfig, cache providers.CacheProvider) providers.DoctorSource {
	var src providers.DoctorSource
	switch {
	case cfg.URL == "":
		return NewFileSource(cfg.FixturePath)
	case cfg.FixturePath == "":
		src = NewHTTPSource(cfg.URL, cfg.Timeout, cfg.MaxAttempts)
	default:
		src = &FallbackSource{
			primary:  NewHTTPSource(cfg.URL, cfg.Timeout, cfg.MaxAttempts),
			fallback: NewFileSource(cfg.FixturePath),
		}
	}

	if cache != nil {
		return NewCachedSource(src, cache, cfg.CacheTTL)
	}
	return src
}

// FallbackSource serves the fallback list when the primary source fails.
type FallbackSource struct {
	primary  providers.DoctorSource
	fallback providers.DoctorSource
}

// NewFallbackSource creates a source that reads primary first and fallback
// only when primary fails.
func NewFallbackSource(primary, fallback providers.DoctorSource) *FallbackSource {
	return &FallbackSource{primary: primary, fallback: fallback}
}

// Fetch implements providers.DoctorSource. The primary error is returned
// when both sources fail.
func (s *FallbackSource) Fetch(ctx context.Context) ([]entities.RawDoctor, error) {
	doctors, err := s.primary.Fetch(ctx)
	if err == nil {
		return doctors, nil
	}

	observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Primary doctor source failed, using fallback")
	doctors, fallbackErr := s.fallback.Fetch(ctx)
	if fallbackErr != nil {
		return nil, err
	}
	return doctors, nil
}
