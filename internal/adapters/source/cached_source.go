package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// RawPayloadKey is the cache key holding the last fetched doctor list.
const RawPayloadKey = "doctors:raw"

// CachedSource keeps the raw doctor payload in a cache provider so restarts
// and replicas do not all hit the upstream feed. Cache failures never fail a
// fetch; they are logged and the wrapped source is used.
type CachedSource struct {
	next  providers.DoctorSource
	cache providers.CacheProvider
	ttl   time.Duration
}

func NewCachedSource(next providers.DoctorSource, cache providers.CacheProvider, ttl time.Duration) *CachedSource {
	return &CachedSource{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

// Fetch implements providers.DoctorSource.
func (s *CachedSource) Fetch(ctx context.Context) ([]entities.RawDoctor, error) {
	logger := observability.LoggerFromContext(ctx)

	data, err := s.cache.Get(ctx, RawPayloadKey)
	switch {
	case err == nil:
		doctors, decodeErr := decodeJSONList(bytes.NewReader(data))
		if decodeErr == nil {
			logger.Debug().Int("records", len(doctors)).Msg("Doctor list served from cache")
			return doctors, nil
		}
		logger.Warn().Err(decodeErr).Msg("Discarding unreadable cached doctor list")
		if delErr := s.cache.Delete(ctx, RawPayloadKey); delErr != nil {
			logger.Warn().Err(delErr).Msg("Failed to delete cached doctor list")
		}
	case errors.Is(err, providers.ErrCacheMiss):
	default:
		logger.Warn().Err(err).Msg("Doctor list cache unavailable, fetching from source")
	}

	doctors, err := s.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doctors)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode doctor list for cache")
		return doctors, nil
	}
	if err := s.cache.Set(ctx, RawPayloadKey, payload, s.ttl); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache doctor list")
	}
	return doctors, nil
}

// Invalidate drops the cached payload so the next Fetch reaches the wrapped source.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, RawPayloadKey); err != nil {
		return err
	}
	if inner, ok := s.next.(providers.InvalidatingSource); ok {
		return inner.Invalidate(ctx)
	}
	return nil
}
