package services

import (
	"context"
	"strings"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// CategoryService manages product categories
type CategoryService struct {
	store     providers.CategoryStore
	sync      recordSync
	notifier  providers.Notifier
	confirmer providers.Confirmer
	metrics   *observability.Metrics
}

// NewCategoryService creates a new category service
func NewCategoryService(store providers.CategoryStore, sync SyncOptions, notifier providers.Notifier, confirmer providers.Confirmer, metrics *observability.Metrics) *CategoryService {
	notifier = orNoop(notifier)
	return &CategoryService{
		store:     store,
		sync:      newRecordSync(sync, notifier),
		notifier:  notifier,
		confirmer: orConfirm(confirmer),
		metrics:   metrics,
	}
}

// Add creates a category
func (s *CategoryService) Add(ctx context.Context, name string) (*entities.Category, error) {
	return s.save(ctx, "", name)
}

// Rename changes the name of an existing category
func (s *CategoryService) Rename(ctx context.Context, id, name string) (*entities.Category, error) {
	if id == "" {
		err := apperrors.NewValidationError("category id is required", "id")
		failure(ctx, observability.LoggerFromContext(ctx), s.notifier, "update category", err)
		return nil, err
	}
	return s.save(ctx, id, name)
}

func (s *CategoryService) save(ctx context.Context, id, name string) (*entities.Category, error) {
	logger := observability.LoggerFromContext(ctx)
	operation, action := "create", "add category"
	if id != "" {
		operation, action = "update", "update category"
	}

	name = strings.TrimSpace(name)
	if name == "" {
		err := apperrors.NewValidationError("category name is required", "name")
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}

	var (
		saved *entities.Category
		err   error
	)
	if id == "" {
		saved, err = s.store.CreateCategory(ctx, name)
	} else {
		saved, err = s.store.UpdateCategory(ctx, id, name)
	}
	observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionCategories), operation, outcome(err))
	if err != nil {
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}

	eventType, message := entities.RecordEventCreated, "Category added successfully"
	if id != "" {
		eventType, message = entities.RecordEventUpdated, "Category updated successfully"
	}
	recordID := id
	if saved != nil && saved.ID != "" {
		recordID = saved.ID
	}
	logger.Info().Str("record_id", recordID).Str("operation", operation).Msg("category saved")
	success(ctx, s.notifier, message)
	s.sync.settle(ctx, entities.CollectionCategories, recordID, eventType)
	return saved, nil
}

// Delete removes a category after the operator confirms
func (s *CategoryService) Delete(ctx context.Context, id string) (bool, error) {
	logger := observability.LoggerFromContext(ctx)
	if !s.confirmer.Confirm(ctx, "Are you sure you want to delete this category?") {
		return false, nil
	}

	message, err := s.store.DeleteCategory(ctx, id)
	observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionCategories), "delete", outcome(err))
	if err != nil {
		failure(ctx, logger, s.notifier, "delete category", err)
		return false, err
	}

	logger.Info().Str("record_id", id).Msg("category deleted")
	success(ctx, s.notifier, deletedMessage(message, "Category deleted successfully"))
	s.sync.settle(ctx, entities.CollectionCategories, id, entities.RecordEventDeleted)
	return true, nil
}
