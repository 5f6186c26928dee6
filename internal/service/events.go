package service

import "github.com/google/uuid"

// Realtime event types
const (
	EventRolesChanged = "roles.changed"
	EventMessageNew   = "message.new"
)

// Publisher pushes an event to connected clients. No recipients means everyone.
type Publisher interface {
	Publish(eventType string, payload interface{}, recipients ...uuid.UUID)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}, ...uuid.UUID) {}

func publisherOrNoop(p Publisher) Publisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
