package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zatekoja/doctordirectory/internal/directory"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// snapshot is one loaded, normalized doctor list. It is never modified after
// it is published.
type snapshot struct {
	doctors     []entities.Doctor
	specialties []string
	byID        map[string]int
	fetchedAt   time.Time
}

// DirectoryService owns the session's normalized doctor list and answers
// directory queries against it.
type DirectoryService struct {
	source providers.DoctorSource
	now    func() time.Time

	loads singleflight.Group
	// loadSeq numbers fetches in start order; a fetch never replaces the
	// list published by a fetch that started after it.
	loadSeq atomic.Uint64

	mu        sync.RWMutex
	current   *snapshot
	published uint64
	onFresh   []func(context.Context, entities.DirectorySnapshot)
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(source providers.DoctorSource) *DirectoryService {
	return &DirectoryService{
		source: source,
		now:    time.Now,
	}
}

// Load fetches and normalizes the doctor list, replacing the current one on
// success. Concurrent calls share a single fetch.
func (s *DirectoryService) Load(ctx context.Context) error {
	_, err, _ := s.loads.Do("load", func() (any, error) {
		return nil, s.load(context.WithoutCancel(ctx))
	})
	return err
}

func (s *DirectoryService) load(ctx context.Context) error {
	seq := s.loadSeq.Add(1)

	ctx, span := observability.StartSpan(ctx, "DirectoryService.Load")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	raws, err := s.source.Fetch(ctx)
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Msg("Failed to load doctor list")
		if _, ok := apperrors.As(err); ok {
			return err
		}
		return apperrors.NewExternalError("failed to fetch doctors", err)
	}

	doctors := directory.NormalizeAll(raws)
	next := &snapshot{
		doctors:     doctors,
		specialties: directory.UniqueSpecialties(doctors),
		byID:        make(map[string]int, len(doctors)),
		fetchedAt:   s.now(),
	}
	for i, d := range doctors {
		if _, dup := next.byID[d.ID]; !dup {
			next.byID[d.ID] = i
		}
	}

	s.mu.Lock()
	if seq < s.published {
		s.mu.Unlock()
		logger.Debug().Msg("Discarding doctor list superseded by a newer fetch")
		return nil
	}
	s.current = next
	s.published = seq
	s.mu.Unlock()

	observability.SetSpanAttributes(span,
		attribute.Int("directory.doctors", len(doctors)),
		attribute.Int("directory.specialties", len(next.specialties)),
	)
	logger.Info().
		Int("doctors", len(doctors)).
		Int("specialties", len(next.specialties)).
		Msg("Doctor list loaded")
	return nil
}

// ensureLoaded returns the current snapshot, loading it on first use.
func (s *DirectoryService) ensureLoaded(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current != nil {
		return current, nil
	}

	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperrors.NewInternalError("doctor list not loaded", nil)
	}
	return s.current, nil
}

// Search applies the filter state to the doctor list.
func (s *DirectoryService) Search(ctx context.Context, state entities.FilterState) (*entities.DoctorSearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "DirectoryService.Search")
	defer span.End()

	snap, err := s.ensureLoaded(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	doctors := directory.Apply(snap.doctors, state)
	observability.SetSpanAttributes(span,
		attribute.String("directory.query", directory.Encode(state)),
		attribute.Int("directory.results", len(doctors)),
	)

	return &entities.DoctorSearchResult{
		Doctors: doctors,
		Cards:   directory.NewCards(doctors),
		Count:   len(doctors),
		Total:   len(snap.doctors),
		Filters: state,
		Query:   directory.Encode(state),
	}, nil
}

// Specialties returns the specialty options, narrowed to those containing term.
func (s *DirectoryService) Specialties(ctx context.Context, term string) ([]string, error) {
	snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return directory.MatchSpecialties(snap.specialties, term), nil
}

// Suggest returns up to limit doctors whose name or specialty contains term.
func (s *DirectoryService) Suggest(ctx context.Context, term string, limit int) ([]entities.Doctor, error) {
	snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Suggest(snap.doctors, term, limit), nil
}

// GetDoctor returns one doctor with its card labels.
func (s *DirectoryService) GetDoctor(ctx context.Context, id string) (*entities.DoctorView, error) {
	snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	i, ok := snap.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor %s not found", id))
	}
	d := snap.doctors[i]
	return &entities.DoctorView{Doctor: d, Card: directory.NewCard(d)}, nil
}

// Refresh drops any cached payload and reloads the doctor list. The previous
// list stays in place when the reload fails.
func (s *DirectoryService) Refresh(ctx context.Context) (entities.DirectorySnapshot, error) {
	if src, ok := s.source.(providers.InvalidatingSource); ok {
		if err := src.Invalidate(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to invalidate cached doctor list")
		}
	}

	// Own key: a lazy load already in flight started before the invalidation.
	// Concurrent refreshes still share one fetch.
	_, err, _ := s.loads.Do("refresh", func() (any, error) {
		return nil, s.load(context.WithoutCancel(ctx))
	})
	if err != nil {
		return s.Snapshot(), err
	}

	snap := s.Snapshot()
	s.mu.RLock()
	hooks := s.onFresh
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(ctx, snap)
	}
	return snap, nil
}

// OnRefresh registers fn to run after every successful Refresh.
func (s *DirectoryService) OnRefresh(fn func(context.Context, entities.DirectorySnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFresh = append(s.onFresh, fn)
}

// Snapshot describes the currently loaded list.
func (s *DirectoryService) Snapshot() entities.DirectorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return entities.DirectorySnapshot{}
	}
	return entities.DirectorySnapshot{
		Count:       len(s.current.doctors),
		Specialties: len(s.current.specialties),
		FetchedAt:   s.current.fetchedAt,
		Loaded:      true,
	}
}
