package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subjects published by the stores after a successful write.
const (
	SubjectSettingsUpdated  = "settings.updated"
	SubjectSessionsAppended = "sessions.appended"
	SubjectGoalsUpdated     = "goals.updated"
)

// Event represents a change notification on the event bus.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// NewEvent creates a new event with a UUID and current timestamp.
func NewEvent(eventType, source string, data map[string]any) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventHandler handles a published event.
type EventHandler func(ctx context.Context, event *Event) error

// Subscription represents an active subscription.
type Subscription interface {
	Unsubscribe() error
	IsValid() bool
}

// EventBus delivers change notifications between stores and observers.
type EventBus interface {
	// Publish sends an event to every subscriber of subject. Handlers have
	// run by the time Publish returns.
	Publish(ctx context.Context, subject string, event *Event) error

	// Subscribe registers a handler for a subject.
	Subscribe(subject string, handler EventHandler) (Subscription, error)

	// Close drops all subscriptions and rejects further use.
	Close()
}
