package entities

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryEventType represents the type of directory event
type DirectoryEventType string

const (
	DirectoryEventRefreshed DirectoryEventType = "refreshed"
)

// DirectoryEvent announces a change to the shared doctor list to other
// instances of the service.
type DirectoryEvent struct {
	ID        string             `json:"id"`
	Type      DirectoryEventType `json:"type"`
	Origin    string             `json:"origin"`
	Count     int                `json:"count"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewDirectoryEvent creates a new directory event
func NewDirectoryEvent(eventType DirectoryEventType, origin string, count int) *DirectoryEvent {
	return &DirectoryEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Origin:    origin,
		Count:     count,
		Timestamp: time.Now(),
	}
}
