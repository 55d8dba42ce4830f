package services

import (
	"context"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
)

// ContactService manages inquiries left through the contact form
type ContactService struct {
	store     providers.ContactStore
	sync      recordSync
	notifier  providers.Notifier
	confirmer providers.Confirmer
}

// NewContactService creates a new contact service
func NewContactService(store providers.ContactStore, sync SyncOptions, notifier providers.Notifier, confirmer providers.Confirmer) *ContactService {
	notifier = orNoop(notifier)
	return &ContactService{
		store:     store,
		sync:      newRecordSync(sync, notifier),
		notifier:  notifier,
		confirmer: orConfirm(confirmer),
	}
}

// Delete removes a contact message after the operator confirms
func (s *ContactService) Delete(ctx context.Context, id string) (bool, error) {
	logger := observability.LoggerFromContext(ctx)
	if !s.confirmer.Confirm(ctx, "Are you sure you want to delete this message?") {
		return false, nil
	}

	message, err := s.store.DeleteContact(ctx, id)
	if err != nil {
		failure(ctx, logger, s.notifier, "delete message", err)
		return false, err
	}

	logger.Info().Str("record_id", id).Msg("contact message deleted")
	success(ctx, s.notifier, deletedMessage(message, "Message deleted successfully"))
	s.sync.settle(ctx, entities.CollectionContacts, id, entities.RecordEventDeleted)
	return true, nil
}
