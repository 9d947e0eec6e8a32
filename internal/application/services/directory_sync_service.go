package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
)

// reloadTimeout bounds the reload triggered by a remote refresh.
const reloadTimeout = 30 * time.Second

// DirectoryReloader reloads the local doctor list.
type DirectoryReloader interface {
	Load(ctx context.Context) error
	OnRefresh(fn func(context.Context, entities.DirectorySnapshot))
}

// DirectorySyncService keeps service instances that share a Redis cache in
// step. A local refresh is announced on the event bus; an announcement from
// another instance reloads this instance's list and runs the invalidators.
type DirectorySyncService struct {
	directory   DirectoryReloader
	eventBus    providers.EventBus
	origin      string
	invalidates []func()
}

// NewDirectorySyncService creates a new sync service. origin identifies this
// instance so its own announcements are ignored.
func NewDirectorySyncService(directory DirectoryReloader, eventBus providers.EventBus, origin string, invalidates ...func()) *DirectorySyncService {
	s := &DirectorySyncService{
		directory:   directory,
		eventBus:    eventBus,
		origin:      origin,
		invalidates: invalidates,
	}
	directory.OnRefresh(s.announce)
	return s
}

// Start listens for announcements until ctx is done.
func (s *DirectorySyncService) Start(ctx context.Context) error {
	events, err := s.eventBus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to directory updates: %w", err)
	}

	go s.processEvents(ctx, events)
	log.Info().Str("origin", s.origin).Msg("Directory sync service started")
	return nil
}

func (s *DirectorySyncService) processEvents(ctx context.Context, events <-chan *entities.DirectoryEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ctx, event)
		}
	}
}

func (s *DirectorySyncService) handleEvent(ctx context.Context, event *entities.DirectoryEvent) {
	if event == nil || event.Origin == s.origin || event.Type != entities.DirectoryEventRefreshed {
		return
	}

	logger := log.With().Str("event_id", event.ID).Str("from", event.Origin).Logger()

	ctx, cancel := context.WithTimeout(ctx, reloadTimeout)
	defer cancel()

	if err := s.directory.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to reload doctor list after remote refresh")
		return
	}
	for _, invalidate := range s.invalidates {
		invalidate()
	}
	logger.Info().Int("doctors", event.Count).Msg("Reloaded doctor list after remote refresh")
}

// announce publishes a refresh made on this instance.
func (s *DirectorySyncService) announce(ctx context.Context, snap entities.DirectorySnapshot) {
	event := entities.NewDirectoryEvent(entities.DirectoryEventRefreshed, s.origin, snap.Count)
	if err := s.eventBus.Publish(context.WithoutCancel(ctx), providers.EventChannelDirectoryUpdates, event); err != nil {
		log.Warn().Err(err).Msg("Failed to announce directory refresh")
	}
}
