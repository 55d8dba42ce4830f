package providers

import (
	"context"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to record events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.RecordEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.RecordEvent, error)

	// Unsubscribe drops every subscriber of a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// DefaultRecordChannel carries every record mutation
const DefaultRecordChannel = "catalog:records"

// CollectionChannel returns the channel name for a single collection
func CollectionChannel(base string, collection entities.Collection) string {
	return base + ":" + string(collection)
}
