package events

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
)

// ErrBusClosed is returned by a closed MemoryEventBus
var ErrBusClosed = errors.New("event bus closed")

// MemoryEventBus fans record events out to subscribers of the same process
type MemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.RecordEvent]struct{}
	closed      bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *entities.RecordEvent]struct{}),
	}
}

// Publish delivers event to every current subscriber of channel. Slow
// subscribers whose buffer is full miss the event. An event for another
// collection's channel is rejected.
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.RecordEvent) error {
	if err := checkEvent(channel, event); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber channel full, skipping event")
		}
	}
	return nil
}

// Subscribe returns a channel of events until ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.RecordEvent, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.RecordEvent]struct{})
	}
	eventChan := make(chan *entities.RecordEvent, subscriberBuffer)
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, eventChan)
	}()
	return eventChan, nil
}

func (b *MemoryEventBus) removeSubscriber(channel string, eventChan chan *entities.RecordEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subscribers, ok := b.subscribers[channel]
	if !ok {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}
	delete(subscribers, eventChan)
	close(eventChan)
	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

// Unsubscribe closes every subscriber of channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close closes every subscription; later calls are rejected
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	b.closed = true
	return nil
}
