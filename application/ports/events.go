package ports

import (
	"context"

	"github.com/SanjayNarukulla/swift-backend/domain/events"
)

// EventPublisher sends domain events to whatever is listening downstream
type EventPublisher interface {
	Publish(ctx context.Context, domainEvents ...events.DomainEvent) error
}

// NoopPublisher drops every event. It is used when no event bus is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	return nil
}
