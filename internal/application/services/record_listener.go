package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
)

// refreshTimeout bounds a mirror refetch triggered by a remote event
const refreshTimeout = 10 * time.Second

// RecordListener refetches list mirrors when another editor process
// announces a mutation on the event bus
type RecordListener struct {
	catalog  Refresher
	eventBus providers.EventBus
	channel  string
	source   string
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRecordListener creates a new listener. Events carrying source are this
// process's own and are ignored.
func NewRecordListener(catalog Refresher, eventBus providers.EventBus, channel, source string) *RecordListener {
	if channel == "" {
		channel = providers.DefaultRecordChannel
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RecordListener{
		catalog:  catalog,
		eventBus: eventBus,
		channel:  channel,
		source:   source,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to every collection channel
func (l *RecordListener) Start() error {
	for _, c := range []entities.Collection{
		entities.CollectionProducts,
		entities.CollectionCategories,
		entities.CollectionBlogs,
		entities.CollectionContacts,
	} {
		channel := providers.CollectionChannel(l.channel, c)
		eventChan, err := l.eventBus.Subscribe(l.ctx, channel)
		if err != nil {
			l.cancel()
			return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		go l.processEvents(eventChan)
	}
	log.Info().Str("channel", l.channel).Msg("record listener started")
	return nil
}

// Stop stops the listener
func (l *RecordListener) Stop() {
	l.cancel()
	log.Info().Msg("record listener stopped")
}

func (l *RecordListener) processEvents(eventChan <-chan *entities.RecordEvent) {
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			l.handleEvent(event)
		}
	}
}

func (l *RecordListener) handleEvent(event *entities.RecordEvent) {
	if l.source != "" && event.Source == l.source {
		return
	}

	ctx, cancel := context.WithTimeout(l.ctx, refreshTimeout)
	defer cancel()

	log.Debug().
		Str("event_id", event.ID).
		Str("collection", string(event.Collection)).
		Str("record_id", event.RecordID).
		Str("type", string(event.EventType)).
		Msg("refreshing mirror for remote record event")

	if err := l.catalog.Refresh(ctx, event.Collection); err != nil {
		log.Warn().Err(err).Str("collection", string(event.Collection)).Msg("failed to refresh mirror")
	}
}
