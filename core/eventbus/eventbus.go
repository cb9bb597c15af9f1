// Package eventbus delivers events from the application layer to the UI.
//
// Events are queued and handed to subscribers from a single goroutine, so a
// subscriber sees events in the order they were published.
package eventbus

import (
	"emotion-detector/core/event"
)

// Publisher is the sending half of the bus. The application layer only needs this.
type Publisher interface {
	// Publish queues e without blocking. If the queue is full e is dropped.
	Publish(e event.Event)
}

// EventBus is the interface for the event bus.
type EventBus interface {
	Publisher

	// Subscribe registers handler for every event and returns its subscription ID.
	Subscribe(handler EventHandler) string

	// SubscribeNames registers handler for events whose EventName is one of names.
	SubscribeNames(handler EventHandler, names ...string) string

	// Unsubscribe removes a subscription by its ID.
	Unsubscribe(subscriptionID string)

	// Close drains queued events and stops delivery. Publish is a no-op afterwards.
	Close()
}

// EventHandler is a function that handles an event.
type EventHandler func(e event.Event)
