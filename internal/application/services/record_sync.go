package services

import (
	"context"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
)

// SyncOptions configures what happens after a successful mutation
type SyncOptions struct {
	// Catalog refetches the mutated collection. Optional.
	Catalog Refresher
	// Bus receives a RecordEvent per mutation. Optional.
	Bus providers.EventBus
	// Channel is the base event channel; defaults to providers.DefaultRecordChannel.
	Channel string
	// Source tags published events so this process can skip its own.
	Source string
}

type recordSync struct {
	catalog  Refresher
	bus      providers.EventBus
	channel  string
	source   string
	notifier providers.Notifier
}

func newRecordSync(opts SyncOptions, notifier providers.Notifier) recordSync {
	channel := opts.Channel
	if channel == "" {
		channel = providers.DefaultRecordChannel
	}
	return recordSync{
		catalog:  opts.Catalog,
		bus:      opts.Bus,
		channel:  channel,
		source:   opts.Source,
		notifier: orNoop(notifier),
	}
}

// settle publishes the mutation and refetches the collection. Neither step
// can fail the mutation; a failed refetch becomes a warning notice.
func (r recordSync) settle(ctx context.Context, collection entities.Collection, recordID string, eventType entities.RecordEventType) {
	logger := observability.LoggerFromContext(ctx)

	if r.bus != nil {
		event := entities.NewRecordEvent(collection, recordID, eventType)
		event.Source = r.source
		if err := r.bus.Publish(ctx, providers.CollectionChannel(r.channel, collection), event); err != nil {
			logger.Warn().Err(err).
				Str("collection", string(collection)).
				Str("record_id", recordID).
				Msg("failed to publish record event")
		}
	}

	if r.catalog == nil {
		return
	}
	if err := r.catalog.Refresh(ctx, collection); err != nil {
		logger.Warn().Err(err).Str("collection", string(collection)).Msg("refresh after mutation failed")
		r.notifier.Notify(ctx, entities.Notice{
			Level:   entities.NoticeWarning,
			Message: "Saved, but the " + string(collection) + " list could not be refreshed.",
			Refresh: true,
		})
	}
}
