package events

import (
	"errors"
	"strings"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
)

// ErrCollectionMismatch is returned when an event is published to another
// collection's channel
var ErrCollectionMismatch = errors.New("event collection does not match channel")

// channelCollection returns the collection a per-collection channel is
// scoped to. Channels without a known collection suffix carry any event.
func channelCollection(channel string) (entities.Collection, bool) {
	i := strings.LastIndex(channel, ":")
	if i < 0 {
		return "", false
	}
	switch c := entities.Collection(channel[i+1:]); c {
	case entities.CollectionProducts, entities.CollectionCategories,
		entities.CollectionBlogs, entities.CollectionContacts:
		return c, true
	}
	return "", false
}

func checkEvent(channel string, event *entities.RecordEvent) error {
	if event == nil {
		return errors.New("nil record event")
	}
	if c, scoped := channelCollection(channel); scoped && event.Collection != c {
		return ErrCollectionMismatch
	}
	return nil
}
