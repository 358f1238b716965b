package shared

import "context"

// EventHandler consumes domain events.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants.
	// An empty slice subscribes it to everything.
	EventTypes() []string
}

// EventPublisher delivers domain events to subscribed handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types. With no
	// types the handler's own EventTypes decide.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes the handler from all subscriptions.
	Unsubscribe(handler EventHandler)
}

// EventBus is a publisher and subscriber in one.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
